package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/ingestion"
	"github.com/campusconnect/campusai-go/internal/logging"
	"github.com/campusconnect/campusai-go/internal/provider"
)

// NewScrapeCmd constructs the `campusai scrape` command, which runs the
// ingestion pipeline over the standing crawl list (or explicit URLs) and
// merges extracted FAQ pairs into the knowledge store.
func NewScrapeCmd() *cobra.Command {
	var force bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Scrape university pages and merge extracted FAQs into the knowledge base",
		Long: `Fetch university web pages, extract FAQ pairs with the configured LLM,
and merge them into the knowledge store.

With no arguments the standing crawl list of official university pages is
used. URLs whose content is already in the store are skipped unless --force
is given. Progress is saved every few pages, so an interrupted run loses at
most one batch.

Rate-limited or malformed LLM responses are retried with exponential
backoff; pages that still fail are logged and skipped, never fatal.

Examples:
  campusai scrape
  campusai scrape --force
  campusai scrape https://svuniversity.edu.in/hostels`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			chatModel, _, err := provider.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("scrape: failed to initialise model provider: %w", err)
			}

			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}
			log.Info("knowledge store opened",
				slog.String("path", kb.Path()),
				slog.Int("records", kb.Len()),
			)

			extractor, err := ingestion.NewExtractor(chatModel)
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}

			fetcher := ingestion.NewHTTPFetcher(&ingestion.FetcherConfig{
				InsecureSkipVerify: os.Getenv("SCRAPE_INSECURE_TLS") == "true",
			})

			pipeline, err := ingestion.NewPipeline(fetcher, extractor, kb, &ingestion.Config{
				Force:           force,
				RequestInterval: interval,
			})
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}

			urls := args
			if len(urls) == 0 {
				urls = ingestion.DefaultSources
			}
			log.Info("starting scrape", slog.Int("urls", len(urls)))

			stats, err := pipeline.Run(ctx, urls, func(msg string) {
				log.Info(msg)
			})
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}

			fmt.Printf("scrape complete: %d fetched, %d skipped, %d failed, %d new FAQs\n",
				stats.Fetched, stats.Skipped, stats.Failed, stats.Added)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-ingest pages already present in the knowledge store")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Pause between page fetches (default 2s)")

	return cmd
}
