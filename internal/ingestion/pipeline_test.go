package ingestion

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/campusconnect/campusai-go/internal/knowledge"
)

// fakeFetcher serves canned page text per URL.
type fakeFetcher struct {
	pages   map[string]string
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

// fakeExtractor returns canned pairs, optionally failing the first n calls.
type fakeExtractor struct {
	pairs     []QA
	failFirst int
	failWith  error
	calls     int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) ([]QA, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return nil, f.failWith
	}
	return f.pairs, nil
}

func testPipelineStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store, err := knowledge.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func fastConfig() *Config {
	return &Config{
		BackoffBase:     time.Millisecond,
		RequestInterval: time.Millisecond,
	}
}

func Test_Pipeline_IngestsNewPages(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.edu/library": "library page text",
	}}
	extractor := &fakeExtractor{pairs: []QA{
		{Question: "Where is the library?", Answer: "Near the main gate."},
	}}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/library"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Fetched != 1 || stats.Added != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	records := store.List()
	if len(records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(records))
	}
	r := records[0]
	if r.Source != "https://example.edu/library" {
		t.Errorf("source not attached: %+v", r)
	}
	if r.Category != knowledge.CategoryFacilities {
		t.Errorf("expected Facilities category, got %q", r.Category)
	}
	if r.ID == "" {
		t.Error("expected a generated record ID")
	}
}

func Test_Pipeline_SkipsIngestedSources(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	seed := []knowledge.Record{{
		ID:       "faq-seed",
		Question: "Old question",
		Answer:   "Old answer",
		Category: knowledge.CategoryGeneral,
		Source:   "https://example.edu/about",
	}}
	if err := store.Replace(seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	fetcher := &fakeFetcher{pages: map[string]string{}}
	extractor := &fakeExtractor{}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/about"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %+v", stats)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("expected no fetches for known source, got %v", fetcher.fetched)
	}
}

func Test_Pipeline_ForceReingestsKnownSources(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	seed := []knowledge.Record{{
		ID:       "faq-seed",
		Question: "Old question",
		Answer:   "Old answer",
		Source:   "https://example.edu/about",
	}}
	if err := store.Replace(seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	fetcher := &fakeFetcher{pages: map[string]string{"https://example.edu/about": "text"}}
	extractor := &fakeExtractor{pairs: []QA{{Question: "New question", Answer: "New answer"}}}

	cfg := fastConfig()
	cfg.Force = true
	p, err := NewPipeline(fetcher, extractor, store, cfg)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/about"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Fetched != 1 || stats.Added != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if store.Len() != 2 {
		t.Errorf("expected merge to keep old and add new, got %d records", store.Len())
	}
}

func Test_Pipeline_RetriesRetryableExtraction(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.edu/x": "text"}}
	extractor := &fakeExtractor{
		failFirst: 2,
		failWith:  ErrMalformedResponse,
		pairs:     []QA{{Question: "Q", Answer: "A"}},
	}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/x"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if extractor.calls != 3 {
		t.Errorf("expected 3 extraction attempts, got %d", extractor.calls)
	}
	if stats.Fetched != 1 || stats.Added != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func Test_Pipeline_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.edu/x": "text"}}
	extractor := &fakeExtractor{
		failFirst: 10,
		failWith:  ErrMalformedResponse,
	}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/x"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if extractor.calls != 3 {
		t.Errorf("expected 3 extraction attempts, got %d", extractor.calls)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failed page, got %+v", stats)
	}
}

func Test_Pipeline_NonRetryableFailsImmediately(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	fetcher := &fakeFetcher{pages: map[string]string{"https://example.edu/x": "text"}}
	extractor := &fakeExtractor{
		failFirst: 10,
		failWith:  errors.New("401 unauthorized"),
	}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/x"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if extractor.calls != 1 {
		t.Errorf("expected 1 extraction attempt, got %d", extractor.calls)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failed page, got %+v", stats)
	}
}

func Test_Pipeline_FetchFailureSkipsPage(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	extractor := &fakeExtractor{pairs: []QA{{Question: "Q", Answer: "A"}}}

	p, err := NewPipeline(fetcher, extractor, store, fastConfig())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	stats, err := p.Run(context.Background(), []string{"https://example.edu/x"}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Failed != 1 || stats.Added != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if extractor.calls != 0 {
		t.Errorf("expected no extraction after fetch failure, got %d calls", extractor.calls)
	}
}

func Test_Pipeline_BatchSaves(t *testing.T) {
	t.Parallel()

	store := testPipelineStore(t)
	pages := map[string]string{}
	urls := make([]string, 0, 7)
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		url := "https://example.edu/" + u
		pages[url] = "text " + u
		urls = append(urls, url)
	}
	fetcher := &fakeFetcher{pages: pages}

	// Distinct questions per call so every page adds one record.
	extractor := &seqExtractor{}

	cfg := fastConfig()
	cfg.BatchSize = 5
	p, err := NewPipeline(fetcher, extractor, store, cfg)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	var saves int
	progress := func(msg string) {
		if len(msg) >= 5 && msg[:5] == "saved" {
			saves++
		}
	}

	stats, err := p.Run(context.Background(), urls, progress)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Added != 7 {
		t.Errorf("expected 7 added, got %+v", stats)
	}
	if saves != 1 {
		t.Errorf("expected 1 mid-run batch save for 7 pages with batch size 5, got %d", saves)
	}
	if store.Len() != 7 {
		t.Errorf("expected final save to persist all records, got %d", store.Len())
	}
}

// seqExtractor returns a unique pair per call.
type seqExtractor struct {
	calls int
}

func (s *seqExtractor) Extract(_ context.Context, _ string) ([]QA, error) {
	s.calls++
	return []QA{{
		Question: "Question number " + string(rune('A'+s.calls)),
		Answer:   "Answer",
	}}, nil
}
