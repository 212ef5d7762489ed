package scraper_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ytlinks/internal/logger"
	"github.com/jonesrussell/ytlinks/internal/scraper"
	"github.com/jonesrussell/ytlinks/internal/subscriptions"
)

// fakeFetcher serves canned page text per URL and records every fetch.
type fakeFetcher struct {
	pages   map[string]string
	errs    map[string]error
	calls   []string
	onFetch func(pageURL string)
}

func (f *fakeFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	if f.onFetch != nil {
		f.onFetch(pageURL)
	}
	if err, ok := f.errs[pageURL]; ok {
		return "", err
	}
	return f.pages[pageURL], nil
}

const fooPage = `About Foo.
[twitter](https://www.youtube.com/redirect?event=channel_header&q=https%3A%2F%2Ftwitter.com%2Ffoo)
[blog](https://www.youtube.com/redirect?event=channel_description&q=https%3A%2F%2Fblog.example.com)
`

const barPage = `About Bar.
[site](https://www.youtube.com/redirect?event=channel_header&q=https%3A%2F%2Fbar.example.com)
`

func fooSub() subscriptions.Subscription {
	return subscriptions.Subscription{Title: "Foo", URL: "https://www.youtube.com/c/foo"}
}

func barSub() subscriptions.Subscription {
	return subscriptions.Subscription{Title: "Bar", URL: "https://www.youtube.com/c/bar"}
}

func TestRun_CollectsResults(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/foo/about": fooPage,
		"https://www.youtube.com/c/bar/about": barPage,
	}}

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{})

	results := s.Run(context.Background(), []subscriptions.Subscription{fooSub(), barSub()})

	require.Len(t, results, 2)
	assert.Equal(t, scraper.ChannelResult{
		ChannelTitle: "Foo",
		ChannelURL:   "https://www.youtube.com/c/foo",
		Links:        []string{"https://twitter.com/foo", "https://blog.example.com"},
	}, results[0])
	assert.Equal(t, scraper.ChannelResult{
		ChannelTitle: "Bar",
		ChannelURL:   "https://www.youtube.com/c/bar",
		Links:        []string{"https://bar.example.com"},
	}, results[1])
}

func TestRun_AppliesFilters(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/foo/about": fooPage,
		"https://www.youtube.com/c/bar/about": barPage,
	}}

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{
		Filters: []string{"TWITTER"},
	})

	results := s.Run(context.Background(), []subscriptions.Subscription{fooSub(), barSub()})

	require.Len(t, results, 2)
	assert.Equal(t, []string{"https://twitter.com/foo"}, results[0].Links)
	assert.Empty(t, results[1].Links)
}

func TestRun_SkipsFetchFailures(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://www.youtube.com/c/bar/about": barPage,
		},
		errs: map[string]error{
			"https://www.youtube.com/c/foo/about": errors.New("proxy unreachable"),
		},
	}

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{})

	results := s.Run(context.Background(), []subscriptions.Subscription{fooSub(), barSub()})

	require.Len(t, results, 1)
	assert.Equal(t, "Bar", results[0].ChannelTitle)
	assert.Len(t, fetcher.calls, 2)
}

func TestRun_SkipsUnresolvableChannels(t *testing.T) {
	t.Parallel()

	noURL := subscriptions.Subscription{Title: "Nowhere", URL: "https://example.com/foo"}

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/bar/about": barPage,
	}}

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{})

	results := s.Run(context.Background(), []subscriptions.Subscription{noURL, barSub()})

	require.Len(t, results, 1)
	assert.Equal(t, "Bar", results[0].ChannelTitle)
	// The unresolvable channel must never be fetched.
	assert.Equal(t, []string{"https://www.youtube.com/c/bar/about"}, fetcher.calls)
}

func TestRun_OnUpdateReceivesSnapshots(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/foo/about": fooPage,
		"https://www.youtube.com/c/bar/about": barPage,
	}}

	var snapshots [][]scraper.ChannelResult

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{
		OnUpdate: func(results []scraper.ChannelResult) {
			snapshots = append(snapshots, results)
		},
	})

	final := s.Run(context.Background(), []subscriptions.Subscription{fooSub(), barSub()})

	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	assert.Len(t, snapshots[1], 2)

	// Snapshots are copies: mutating one must not affect the final results.
	snapshots[1][0].ChannelTitle = "mutated"
	assert.Equal(t, "Foo", final[0].ChannelTitle)
}

func TestRun_CancellationReturnsPartialResults(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://www.youtube.com/c/foo/about": fooPage,
			"https://www.youtube.com/c/bar/about": barPage,
		},
	}
	// Cancel while the first page is in flight; the loop boundary check must
	// stop the run before the second subscription.
	fetcher.onFetch = func(string) { cancel() }

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{})

	results := s.Run(ctx, []subscriptions.Subscription{fooSub(), barSub()})

	require.Len(t, results, 1)
	assert.Equal(t, "Foo", results[0].ChannelTitle)
	assert.Len(t, fetcher.calls, 1)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{})

	results := s.Run(ctx, []subscriptions.Subscription{fooSub()})

	assert.Empty(t, results)
	assert.Empty(t, fetcher.calls)
}

func TestRun_ProgressOutput(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/foo/about": fooPage,
	}}

	var buf strings.Builder

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{
		Progress:       true,
		ProgressWriter: &buf,
	})

	s.Run(context.Background(), []subscriptions.Subscription{fooSub()})

	out := buf.String()
	assert.Contains(t, out, `[1/1] Fetching links for "Foo"...`)
	assert.Contains(t, out, "Found 2 link(s).")
}

func TestRun_ProgressSuppressed(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.youtube.com/c/foo/about": fooPage,
	}}

	var buf strings.Builder

	s := scraper.New(fetcher, logger.NewNoOp(), scraper.Options{
		Progress:       false,
		ProgressWriter: &buf,
	})

	s.Run(context.Background(), []subscriptions.Subscription{fooSub()})

	assert.Empty(t, buf.String())
}
