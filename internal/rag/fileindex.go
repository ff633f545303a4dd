package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileIndex is a VectorStore persisted as a single JSON snapshot on local
// disk, searched by brute-force cosine similarity. It is the default backend
// for single-host deployments where running a Qdrant cluster is overkill;
// the corpus is a few thousand FAQ embeddings at most.
//
// The index is a derived, rebuildable cache over the knowledge store. It
// supports no deletion or update — corrections are applied by rebuilding
// the whole index with `campusai index`.
type FileIndex struct {
	// mu guards entries and the save that follows each Upsert.
	mu sync.RWMutex

	// path is the JSON file the index is persisted to.
	path string

	// entries holds every indexed document with its embedding.
	entries []fileIndexEntry
}

// fileIndexEntry is the persisted form of one indexed document.
type fileIndexEntry struct {
	// Doc carries the document fields except the transient Score.
	Doc Document `json:"doc"`
	// Embedding is the document's dense vector.
	Embedding []float32 `json:"embedding"`
}

// fileIndexSnapshot is the on-disk JSON shape.
type fileIndexSnapshot struct {
	Entries []fileIndexEntry `json:"entries"`
}

// OpenFileIndex loads the index persisted at path. A missing or unreadable
// file yields a valid empty index — absence of an index is an addressable
// state, not a fatal error — so construction never fails for that reason.
func OpenFileIndex(path string) *FileIndex {
	idx := &FileIndex{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return idx
	}
	var snap fileIndexSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt index: start empty and let the next rebuild replace it.
		return idx
	}
	idx.entries = snap.Entries
	return idx
}

// Upsert appends the documents with their embeddings and persists the whole
// index to disk before returning. The save is synchronous and rewrites the
// full snapshot, so callers pay O(index size) per batch, not per document.
// A document whose ID is already indexed replaces the earlier entry.
func (f *FileIndex) Upsert(_ context.Context, docs []Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("rag: %d docs but %d embeddings", len(docs), len(embeddings))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	byID := make(map[string]int, len(f.entries))
	for i, e := range f.entries {
		byID[e.Doc.ID] = i
	}

	for i, doc := range docs {
		doc.Score = 0
		entry := fileIndexEntry{Doc: doc, Embedding: embeddings[i]}
		if pos, ok := byID[doc.ID]; ok {
			f.entries[pos] = entry
			continue
		}
		byID[doc.ID] = len(f.entries)
		f.entries = append(f.entries, entry)
	}

	return f.save()
}

// Search returns the top-k entries by cosine similarity to the query
// embedding. An empty index returns an empty result.
func (f *FileIndex) Search(_ context.Context, queryEmbedding []float32, topK int) ([]Document, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.entries) == 0 || topK <= 0 {
		return nil, nil
	}

	type match struct {
		doc   Document
		score float32
	}
	matches := make([]match, 0, len(f.entries))
	for _, e := range f.entries {
		matches = append(matches, match{doc: e.Doc, score: cosine(queryEmbedding, e.Embedding)})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > topK {
		matches = matches[:topK]
	}

	docs := make([]Document, 0, len(matches))
	for _, m := range matches {
		d := m.doc
		d.Score = m.score
		docs = append(docs, d)
	}
	return docs, nil
}

// Count reports the number of indexed documents.
func (f *FileIndex) Count(_ context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries), nil
}

// Close is a no-op; the index holds no open resources between calls.
func (f *FileIndex) Close() error { return nil }

// Reset discards all entries and removes the persisted snapshot, used by the
// index rebuild command before re-adding every record.
func (f *FileIndex) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rag: remove index %s: %w", f.path, err)
	}
	return nil
}

// save writes the snapshot atomically. Callers must hold mu.
func (f *FileIndex) save() error {
	data, err := json.Marshal(fileIndexSnapshot{Entries: f.entries})
	if err != nil {
		return fmt.Errorf("rag: marshal index: %w", err)
	}

	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("rag: create %s: %w", dir, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("rag: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rag: rename %s: %w", f.path, err)
	}
	return nil
}

// cosine returns the cosine similarity of a and b. Mismatched or zero-length
// vectors score zero rather than erroring — such entries simply rank last.
func cosine(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
