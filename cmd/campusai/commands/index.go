package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/embedder"
	"github.com/campusconnect/campusai-go/internal/logging"
	"github.com/campusconnect/campusai-go/internal/rag"
)

// indexBatchSize is how many records are embedded per request when
// rebuilding the vector index.
const indexBatchSize = 32

// NewIndexCmd constructs the `campusai index` command, which rebuilds the
// semantic vector index from the knowledge store.
func NewIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the vector index from the knowledge base",
		Long: `Embed every FAQ record and rebuild the semantic search index.

The vector backend is selected with VECTOR_BACKEND (file or qdrant); the
embedding backend with EMBEDDING_PROVIDER or MODEL_PROVIDER. The local file
index is wiped and rebuilt from scratch; a Qdrant collection receives an
upsert per record ID, replacing stale vectors in place.

Examples:
  campusai index
  VECTOR_BACKEND=qdrant QDRANT_HOST=localhost campusai index`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			if err := embedder.ValidateForIndexing(log); err != nil {
				return fmt.Errorf("index: %w", err)
			}

			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("index: failed to initialise embedder: %w", err)
			}

			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			records := kb.List()
			if len(records) == 0 {
				return fmt.Errorf("index: knowledge store at %s is empty, run 'campusai scrape' first", kb.Path())
			}

			vs, _, err := buildVectorStore(ctx, log)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			defer vs.Close()

			// The file index has no per-vector delete, so a rebuild starts
			// from an empty index.
			if fi, ok := vs.(*rag.FileIndex); ok {
				if err := fi.Reset(); err != nil {
					return fmt.Errorf("index: failed to reset file index: %w", err)
				}
			}

			sem, err := rag.NewSemantic(emb, vs, getEnvInt("CHAT_TOP_K", 5))
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			docs := make([]rag.Document, 0, len(records))
			for _, r := range records {
				docs = append(docs, rag.Document{
					ID:      r.ID,
					Content: rag.Snippet(r),
					Source:  r.Source,
					Metadata: map[string]string{
						"question": r.Question,
						"category": string(r.Category),
					},
				})
			}

			for start := 0; start < len(docs); start += indexBatchSize {
				end := min(start+indexBatchSize, len(docs))
				if err := sem.Add(ctx, docs[start:end]); err != nil {
					return fmt.Errorf("index: failed to index records %d-%d: %w", start, end-1, err)
				}
				log.Info("indexed batch",
					slog.Int("done", end),
					slog.Int("total", len(docs)),
				)
			}

			fmt.Printf("indexed %d FAQ records\n", len(docs))
			return nil
		},
	}
}
