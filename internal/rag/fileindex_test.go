package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func Test_OpenFileIndex_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	idx := OpenFileIndex(filepath.Join(t.TempDir(), "index.json"))

	n, err := idx.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty index, got %d entries", n)
	}

	docs, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected empty search result, got %d", len(docs))
	}
}

func Test_OpenFileIndex_CorruptFileIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	idx := OpenFileIndex(path)
	n, err := idx.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected corrupt index to load as empty, got %d entries", n)
	}
}

func Test_FileIndex_UpsertAndSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	idx := OpenFileIndex(filepath.Join(t.TempDir(), "index.json"))

	docs := []Document{
		{ID: "a", Content: "library hours"},
		{ID: "b", Content: "hostel fees"},
	}
	embeddings := [][]float32{
		{1, 0},
		{0, 1},
	}

	if err := idx.Upsert(ctx, docs, embeddings); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := idx.Search(ctx, []float32{0.9, 0.1}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected closest match a, got %+v", got)
	}
	if got[0].Score <= 0 {
		t.Errorf("expected positive similarity score, got %v", got[0].Score)
	}
}

func Test_FileIndex_UpsertReplacesByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	idx := OpenFileIndex(filepath.Join(t.TempDir(), "index.json"))

	if err := idx.Upsert(ctx, []Document{{ID: "a", Content: "old"}}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := idx.Upsert(ctx, []Document{{ID: "a", Content: "new"}}, [][]float32{{0, 1}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	n, err := idx.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected replace by ID to keep 1 entry, got %d", n)
	}

	got, err := idx.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Content != "new" {
		t.Errorf("expected updated content, got %+v", got)
	}
}

func Test_FileIndex_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	idx := OpenFileIndex(path)
	docs := []Document{{ID: "a", Content: "library hours", Source: "https://example.edu", Metadata: map[string]string{"category": "Facilities"}}}
	if err := idx.Upsert(ctx, docs, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	reopened := OpenFileIndex(path)
	got, err := reopened.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected persisted entry after reopen, got %d", len(got))
	}
	if got[0].Content != "library hours" || got[0].Source != "https://example.edu" {
		t.Errorf("persisted fields lost: %+v", got[0])
	}
	if got[0].Metadata["category"] != "Facilities" {
		t.Errorf("persisted metadata lost: %+v", got[0].Metadata)
	}
}

func Test_FileIndex_MismatchedLengths(t *testing.T) {
	t.Parallel()

	idx := OpenFileIndex(filepath.Join(t.TempDir(), "index.json"))
	err := idx.Upsert(context.Background(), []Document{{ID: "a"}}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched docs/embeddings lengths")
	}
}

func Test_FileIndex_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	idx := OpenFileIndex(path)
	if err := idx.Upsert(ctx, []Document{{ID: "a"}}, [][]float32{{1}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := idx.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	n, err := idx.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty index after reset, got %d", n)
	}

	reopened := OpenFileIndex(path)
	n, err = reopened.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected reset to persist, got %d entries on reopen", n)
	}
}

func Test_Cosine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"mismatched lengths", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := cosine(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("cosine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
