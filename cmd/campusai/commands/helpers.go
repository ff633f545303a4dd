package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/campusconnect/campusai-go/internal/embedder"
	"github.com/campusconnect/campusai-go/internal/knowledge"
	"github.com/campusconnect/campusai-go/internal/rag"
)

// defaultDataFile is the knowledge store path when CAMPUSAI_DATA_FILE is
// unset. Relative to the working directory, matching the original layout.
const defaultDataFile = "data.json"

// defaultIndexFile is the local vector index path when VECTOR_INDEX_PATH is
// unset.
const defaultIndexFile = "vector_index.json"

// openKnowledge opens the FAQ knowledge store at the configured path.
func openKnowledge() (*knowledge.Store, error) {
	path := getEnvOrDefault("CAMPUSAI_DATA_FILE", defaultDataFile)
	kb, err := knowledge.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store at %s: %w", path, err)
	}
	return kb, nil
}

// buildVectorStore constructs the vector store selected by VECTOR_BACKEND:
// "file" (default) for the local JSON index, "qdrant" for a Qdrant cluster.
// The returned *qdrant.Client is non-nil only for the qdrant backend and is
// used by the readiness pinger.
func buildVectorStore(ctx context.Context, log *slog.Logger) (rag.VectorStore, *qdrant.Client, error) {
	backend := getEnvOrDefault("VECTOR_BACKEND", "file")

	switch backend {
	case "file":
		path := getEnvOrDefault("VECTOR_INDEX_PATH", defaultIndexFile)
		log.Info("vector store: local file index", slog.String("path", path))
		return rag.OpenFileIndex(path), nil, nil

	case "qdrant":
		host := getEnvOrDefault("QDRANT_HOST", "localhost")
		port := getEnvInt("QDRANT_PORT", 6334)
		collection := getEnvOrDefault("QDRANT_COLLECTION", "campusai-faqs")
		embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", getEnvOrDefault("MODEL_PROVIDER", "ollama"))
		vectorSize := uint64(embedder.DefaultDimensions(embBackend)) //nolint:gosec // dimensions are bounded

		qs, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
			Host:       host,
			Port:       port,
			Collection: collection,
			VectorSize: vectorSize,
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			UseTLS:     os.Getenv("QDRANT_TLS") == "true",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", host, port, err)
		}
		log.Info("vector store: qdrant",
			slog.String("host", host),
			slog.Int("port", port),
			slog.String("collection", collection),
		)
		return qs, qs.Client(), nil

	default:
		return nil, nil, fmt.Errorf("unknown VECTOR_BACKEND %q (expected file or qdrant)", backend)
	}
}

// buildRetriever constructs the retriever selected by RETRIEVER: "lexical"
// (default, zero external dependencies) or "semantic" (embedder + vector
// store). The returned close function releases vector store resources and is
// safe to call for either backend.
func buildRetriever(ctx context.Context, log *slog.Logger, kb *knowledge.Store) (rag.Retriever, func(), *qdrant.Client, error) {
	backend := getEnvOrDefault("RETRIEVER", "lexical")

	switch backend {
	case "lexical":
		lex, err := rag.NewLexical(kb)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("retriever: lexical keyword search")
		return lex, func() {}, nil, nil

	case "semantic":
		emb, err := embedder.NewFromEnv(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialise embedder: %w", err)
		}

		vs, qc, err := buildVectorStore(ctx, log)
		if err != nil {
			return nil, nil, nil, err
		}

		sem, err := rag.NewSemantic(emb, vs, getEnvInt("CHAT_TOP_K", 5))
		if err != nil {
			vs.Close()
			return nil, nil, nil, err
		}
		log.Info("retriever: semantic vector search")
		return sem, func() { _ = vs.Close() }, qc, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown RETRIEVER %q (expected lexical or semantic)", backend)
	}
}

// getEnvOrDefault returns the env var value, or fallback when unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env var parsed as int, or fallback when unset or
// unparseable.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
