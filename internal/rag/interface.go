// Package rag defines the retrieval contracts shared by both retrieval
// engines: the lexical keyword scorer over the flat knowledge store and the
// embedding-similarity search over a vector index. Concrete vector backends
// (the local file index, Qdrant) satisfy the VectorStore interface so the
// chat layer never depends on a specific one.
package rag

import (
	"context"
)

// Document represents a unit of retrieved or stored knowledge.
type Document struct {
	// ID is the unique identifier for this document.
	ID string

	// Content is the text the embedding was generated from.
	Content string

	// Source is the origin URL of the underlying FAQ record.
	Source string

	// Metadata carries the FAQ record fields (question, answer, category).
	Metadata map[string]string

	// Score is the similarity score assigned during retrieval.
	// Zero value means the score was not computed.
	Score float32
}

// VectorStore is the interface for persisting and searching document
// embeddings. Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores a batch of documents with their pre-computed embeddings.
	// The embeddings slice is parallel to docs — embeddings[i] belongs to docs[i].
	Upsert(ctx context.Context, docs []Document, embeddings [][]float32) error

	// Search returns the top-k most similar documents for the query embedding.
	// An empty index yields an empty result, not an error.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Document, error)

	// Count reports the number of indexed documents.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever is the contract both engines implement: given a query, return
// the top-k most relevant snippets for the answer composer.
type Retriever interface {
	// Retrieve returns the top-k most relevant documents for the given query.
	// Zero matches is a valid empty result — "no local context" — never an error.
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)
}
