package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// snapshot is the on-disk JSON shape of the knowledge store.
type snapshot struct {
	// FAQs is the full ordered record collection.
	FAQs []Record `json:"faqs"`
}

// Store is the file-backed knowledge store. Every mutation rewrites the whole
// file atomically (write to a temp file, then rename), so a reader either
// sees the previous snapshot or the new one, never a torn write.
//
// Concurrent writers are serialized within one process by an internal mutex;
// writers in separate processes race with last-writer-wins semantics, which
// is an accepted limitation of the full-file overwrite model.
type Store struct {
	// mu serializes mutations and the save that follows each of them.
	mu sync.Mutex

	// path is the JSON file backing the store.
	path string

	// records is the in-memory copy of the persisted collection.
	records []Record
}

// Open loads the store at path. A missing file is a valid empty initial
// state, not an error; a file that exists but cannot be parsed is an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge: read %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("knowledge: parse %s: %w", path, err)
	}
	s.records = snap.FAQs
	return s, nil
}

// Path returns the file path backing the store.
func (s *Store) Path() string { return s.path }

// List returns a copy of all records in stored order.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *Store) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Create appends a new record and persists the store. The record's ID is
// assigned here (collision-checked against stored IDs); an absent category is
// normalized via the classifier, and an absent source becomes SourceManual.
// Returns the stored record.
func (s *Store) Create(r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool, len(s.records))
	for _, existing := range s.records {
		ids[existing.ID] = true
	}
	r.ID = newRecordID(ids)
	if r.Category == "" {
		r.Category = Classify(r.Question, r.Answer)
	}
	if r.Source == "" {
		r.Source = SourceManual
	}

	s.records = append(s.records, r)
	if err := s.save(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Update replaces the question, answer, category, and source of the record
// with the given ID, then persists the store. An absent category is
// reclassified from the new text. Returns ErrNotFound for an unknown ID.
func (s *Store) Update(id string, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		r.ID = id
		if r.Category == "" {
			r.Category = Classify(r.Question, r.Answer)
		}
		if r.Source == "" {
			r.Source = s.records[i].Source
		}
		s.records[i] = r
		if err := s.save(); err != nil {
			return Record{}, err
		}
		return r, nil
	}
	return Record{}, ErrNotFound
}

// Delete removes the record with the given ID and persists the store.
// Returns ErrNotFound for an unknown ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// Replace swaps the entire record collection and persists the store. Used by
// the ingestion pipeline (batch merge results) and the refine pass.
func (s *Store) Replace(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	return s.save()
}

// Sources returns the set of distinct source values present in the store,
// used by the ingestion pipeline to skip already-processed URLs.
func (s *Store) Sources() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.records))
	for _, r := range s.records {
		if r.Source != "" {
			out[r.Source] = true
		}
	}
	return out
}

// save writes the full snapshot to a temp file in the store's directory and
// renames it over the target path. Callers must hold mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(snapshot{FAQs: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("knowledge: marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("knowledge: create %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp-" + shortHex(8)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("knowledge: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("knowledge: rename %s: %w", s.path, err)
	}
	return nil
}

// Refine returns a cleaned copy of records: entries with an empty question or
// answer are dropped, case-insensitive duplicate questions are removed
// (keeping the first occurrence), every survivor is reclassified, records
// without an ID get one, and the result is stably sorted by category so the
// persisted file groups related entries together.
func Refine(records []Record) []Record {
	out := make([]Record, 0, len(records))
	seen := make(map[string]bool, len(records))
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		if r.ID != "" {
			ids[r.ID] = true
		}
	}

	for _, r := range records {
		r.Question = strings.TrimSpace(r.Question)
		r.Answer = strings.TrimSpace(r.Answer)
		if r.Question == "" || r.Answer == "" {
			continue
		}
		key := strings.ToLower(r.Question)
		if seen[key] {
			continue
		}
		seen[key] = true

		r.Category = Classify(r.Question, r.Answer)
		if r.ID == "" {
			r.ID = newRecordID(ids)
			ids[r.ID] = true
		}
		if r.Source == "" {
			r.Source = SourceManual
		}
		out = append(out, r)
	}

	// Stable sort keeps the original relative order within a category.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}
