// Package scrape implements the scrape command: the full CSV-to-JSON
// channel-link pipeline.
package scrape

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/ytlinks/internal/config"
	"github.com/jonesrussell/ytlinks/internal/fetcher"
	"github.com/jonesrussell/ytlinks/internal/logger"
	"github.com/jonesrussell/ytlinks/internal/output"
	"github.com/jonesrussell/ytlinks/internal/scraper"
	"github.com/jonesrussell/ytlinks/internal/subscriptions"
)

// defaultDelaySeconds mirrors config.DefaultDelay for the flag help text.
const defaultDelaySeconds = 0.5

// Command returns the scrape command for use in the root command.
func Command() *cobra.Command {
	var (
		outputPath string
		delay      float64
		filters    []string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "scrape [subscriptions_csv]",
		Short: "Scrape external links from the channels in a subscriptions export",
		Long: `Fetch each subscribed channel's about page through the text-extraction
proxy, extract the outbound links it publishes, and write the aggregated
result to a JSON file. Partial progress is persisted after every channel,
so an interrupted run still leaves a valid results file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			applyFlagOverrides(cmd, cfg, outputPath, delay)

			log, err := logger.New(&cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			return run(cmd, cfg, log, args[0], filters, !noProgress)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutput,
		"destination JSON file")
	cmd.Flags().Float64Var(&delay, "delay", defaultDelaySeconds,
		"delay in seconds between requests to avoid overwhelming the proxy")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil,
		"only include links containing this substring; repeatable, any match keeps the link")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress output")

	return cmd
}

// applyFlagOverrides copies explicitly-set flag values over the loaded
// configuration so flags always win over file and environment settings.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, outputPath string, delay float64) {
	if cmd.Flags().Changed("output") || cfg.Scraper.Output == "" {
		cfg.Scraper.Output = outputPath
	}

	if cmd.Flags().Changed("delay") {
		if delay < 0 {
			delay = 0
		}
		cfg.Scraper.Delay = time.Duration(delay * float64(time.Second))
	}
}

// run drives the pipeline: read subscriptions, prepare the output file,
// scrape every channel, and persist the final results.
func run(
	cmd *cobra.Command,
	cfg *config.Config,
	log logger.Interface,
	csvPath string,
	filters []string,
	progress bool,
) error {
	reader := subscriptions.NewReader(csvPath)

	subs, err := reader.Read()
	if err != nil {
		return fmt.Errorf("could not open subscriptions file %s: %w", csvPath, err)
	}

	if len(subs) == 0 {
		return fmt.Errorf("%w in %s", subscriptions.ErrNoSubscriptions, csvPath)
	}

	log.Debug("parsed subscriptions", "path", csvPath, "count", len(subs))

	writer, err := output.NewWriter(cfg.Scraper.Output)
	if err != nil {
		return err
	}

	// Touch the output file early so users can see where results will land.
	if writeErr := writer.Write([]scraper.ChannelResult{}); writeErr != nil {
		return writeErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pages := fetcher.New(fetcher.Config{
		ProxyPrefix: cfg.Scraper.ProxyPrefix,
		UserAgent:   cfg.Scraper.UserAgent,
		Timeout:     cfg.Scraper.RequestTimeout,
	})

	s := scraper.New(pages, log.WithComponent("scraper"), scraper.Options{
		Delay:    cfg.Scraper.Delay,
		Filters:  filters,
		Progress: progress,
		OnUpdate: func(results []scraper.ChannelResult) {
			if updateErr := writer.Write(results); updateErr != nil {
				log.WithError(updateErr).Error("failed to persist partial results")
			}
		},
	})

	results := s.Run(ctx, subs)

	if writeErr := writer.Write(results); writeErr != nil {
		return writeErr
	}

	resolved, err := filepath.Abs(writer.Path())
	if err != nil {
		resolved = writer.Path()
	}

	log.Info("scrape complete", "channels", len(results), "output", resolved)
	fmt.Printf("Saved channel links for %d channels to %s\n", len(results), resolved)

	return nil
}
