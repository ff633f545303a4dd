package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/ingestion"
	"github.com/campusconnect/campusai-go/internal/logging"
	"github.com/campusconnect/campusai-go/internal/provider"
)

// NewAddURLCmd constructs the `campusai add-url` command, which ingests a
// single page into the knowledge base.
func NewAddURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-url [url]",
		Short: "Ingest a single page into the knowledge base",
		Long: `Fetch one university page, extract FAQ pairs with the configured LLM,
and merge them into the knowledge store.

Unlike 'campusai scrape', the page is re-ingested even if its URL is
already recorded as a source, so add-url can refresh a stale page.

Example:
  campusai add-url https://svuniversity.edu.in/academics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			chatModel, _, err := provider.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("add-url: failed to initialise model provider: %w", err)
			}

			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("add-url: %w", err)
			}

			extractor, err := ingestion.NewExtractor(chatModel)
			if err != nil {
				return fmt.Errorf("add-url: %w", err)
			}

			fetcher := ingestion.NewHTTPFetcher(&ingestion.FetcherConfig{
				InsecureSkipVerify: os.Getenv("SCRAPE_INSECURE_TLS") == "true",
			})

			pipeline, err := ingestion.NewPipeline(fetcher, extractor, kb, &ingestion.Config{
				Force: true,
			})
			if err != nil {
				return fmt.Errorf("add-url: %w", err)
			}

			stats, err := pipeline.Run(ctx, args, func(msg string) {
				log.Info(msg)
			})
			if err != nil {
				return fmt.Errorf("add-url: %w", err)
			}
			if stats.Failed > 0 {
				return fmt.Errorf("add-url: failed to ingest %s", args[0])
			}

			fmt.Printf("added %d new FAQs from %s\n", stats.Added, args[0])
			return nil
		},
	}

	return cmd
}
