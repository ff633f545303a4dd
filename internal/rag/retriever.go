package rag

import (
	"context"
	"fmt"
)

// Semantic implements Retriever by combining an Embedder and a VectorStore:
// the query is embedded at retrieval time and the store performs the
// nearest-neighbor search.
type Semantic struct {
	// embedder converts query text to a dense vector.
	embedder Embedder

	// store performs the vector similarity search.
	store VectorStore

	// defaultTopK is the number of results to return when the caller passes 0.
	defaultTopK int
}

// NewSemantic constructs a Semantic retriever from the given Embedder and
// VectorStore. defaultTopK sets the fallback result count when Retrieve is
// called with topK=0.
func NewSemantic(embedder Embedder, store VectorStore, defaultTopK int) (*Semantic, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Semantic{
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
	}, nil
}

// Retrieve embeds the query and returns the top-k nearest documents. An
// empty index short-circuits to an empty result without calling the
// embedding service.
func (s *Semantic) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("rag: counting index entries failed: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query")
	}

	docs, err := s.store.Search(ctx, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	return docs, nil
}

// Add embeds the documents and upserts them into the vector store. The
// store's save is synchronous, so Add blocks until the updated index is
// persisted.
func (s *Semantic) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}

	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("rag: embedding documents failed: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("rag: expected %d embeddings, got %d", len(docs), len(embeddings))
	}

	if err := s.store.Upsert(ctx, docs, embeddings); err != nil {
		return fmt.Errorf("rag: upsert failed: %w", err)
	}
	return nil
}
