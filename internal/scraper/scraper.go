// Package scraper drives the per-subscription fetch/parse/filter pipeline
// and collects channel results, persisting partial progress through an
// observer callback.
package scraper

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/ytlinks/internal/links"
	"github.com/jonesrussell/ytlinks/internal/logger"
	"github.com/jonesrussell/ytlinks/internal/subscriptions"
	"github.com/jonesrussell/ytlinks/internal/youtube"
)

// ChannelResult is the per-channel output record. Links are deduplicated and
// ordered by event priority, then discovery order.
type ChannelResult struct {
	ChannelTitle string   `json:"channel_title"`
	ChannelURL   string   `json:"channel_url"`
	Links        []string `json:"links"`
}

// PageFetcher retrieves the rendered text of a page.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// UpdateFunc receives a copy of the in-progress results after every appended
// channel. Callers use it to persist partial progress.
type UpdateFunc func(results []ChannelResult)

// Options configures a Scraper.
type Options struct {
	// Delay is the minimum interval between consecutive page fetches.
	// Zero disables pacing.
	Delay time.Duration
	// Filters keeps only links containing at least one of these substrings,
	// matched case-insensitively. Empty keeps all links.
	Filters []string
	// Progress enables human-readable progress lines.
	Progress bool
	// ProgressWriter receives progress lines; defaults to stdout.
	ProgressWriter io.Writer
	// OnUpdate, when set, is invoked after each appended result.
	OnUpdate UpdateFunc
}

// Scraper processes subscriptions sequentially, one attempt each.
type Scraper struct {
	fetcher PageFetcher
	logger  logger.Interface
	opts    Options
	limiter *rate.Limiter
}

// New creates a Scraper with the given page fetcher, logger, and options.
func New(fetcher PageFetcher, log logger.Interface, opts Options) *Scraper {
	if opts.ProgressWriter == nil {
		opts.ProgressWriter = os.Stdout
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Scraper{
		fetcher: fetcher,
		logger:  log,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run processes every subscription in order and returns the collected
// results. Per-subscription failures are logged and skipped; cancelling the
// context returns whatever has been collected so far.
func (s *Scraper) Run(ctx context.Context, subs []subscriptions.Subscription) []ChannelResult {
	results := make([]ChannelResult, 0, len(subs))
	total := len(subs)

	for i, sub := range subs {
		// The limiter is checked at the loop boundary so an interrupt never
		// cuts a subscription off mid-append.
		if err := s.limiter.Wait(ctx); err != nil {
			s.progressf("\nInterrupted by user, saving collected links...\n")
			return results
		}

		s.progressf("[%d/%d] Fetching links for %q...\n", i+1, total, sub.Title)

		aboutURL, err := sub.AboutURL()
		if err != nil {
			s.logger.Warn("skipping subscription: missing channel URL",
				"title", sub.Title,
				"url", sub.URL,
			)
			continue
		}

		pageText, err := s.fetcher.FetchPage(ctx, aboutURL)
		if err != nil {
			if ctx.Err() != nil {
				s.progressf("\nInterrupted by user, saving collected links...\n")
				return results
			}
			s.logger.Error("fetch failed",
				"url", aboutURL,
				"error", err.Error(),
			)
			continue
		}

		found := links.Filter(links.Parse(pageText), s.opts.Filters)

		results = append(results, ChannelResult{
			ChannelTitle: sub.Title,
			ChannelURL:   s.canonicalURL(sub),
			Links:        found,
		})

		if s.opts.OnUpdate != nil {
			s.opts.OnUpdate(append([]ChannelResult(nil), results...))
		}

		s.reportLinks(len(found))
	}

	return results
}

// canonicalURL returns the canonical channel URL, falling back to the raw
// subscription URL when normalization fails.
func (s *Scraper) canonicalURL(sub subscriptions.Subscription) string {
	canonical, err := youtube.NormalizeChannelURL(sub.URL, sub.ChannelID)
	if err != nil {
		return sub.URL
	}
	return canonical
}

// reportLinks prints the per-channel link count.
func (s *Scraper) reportLinks(count int) {
	switch {
	case count > 0:
		s.progressf("    Found %d link(s).\n", count)
	case len(s.opts.Filters) > 0:
		s.progressf("    No matching links found.\n")
	default:
		s.progressf("    No links found.\n")
	}
}

// progressf writes a progress line when progress reporting is enabled.
func (s *Scraper) progressf(format string, args ...any) {
	if !s.opts.Progress {
		return
	}
	fmt.Fprintf(s.opts.ProgressWriter, format, args...)
}
