package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusconnect/campusai-go/internal/knowledge"
)

// newFAQTestServer builds a *Server backed by a knowledge store in a temp
// directory, pre-seeded with the given records.
func newFAQTestServer(t *testing.T, seed ...knowledge.Record) *Server {
	t.Helper()

	store, err := knowledge.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, r := range seed {
		if _, err := store.Create(r); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	s := newTestServer()
	s.store = store
	return s
}

func TestHandleFAQList(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t,
		knowledge.Record{Question: "Where is the hostel?", Answer: "Behind the admin block."},
		knowledge.Record{Question: "What are the fees?", Answer: "See the admissions page."},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/faqs", nil)
	w := httptest.NewRecorder()

	s.handleFAQList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp faqListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.FAQs) != 2 {
		t.Errorf("expected 2 records, got count=%d len=%d", resp.Count, len(resp.FAQs))
	}
}

func TestHandleFAQCreate(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/faqs",
		strings.NewReader(`{"question":"Is there a gym?","answer":"Yes, near the sports complex."}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleFAQCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", w.Code, w.Body.String())
	}

	var created knowledge.Record
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.ID, "faq-") {
		t.Errorf("expected faq- prefixed ID, got %q", created.ID)
	}
	if created.Source != knowledge.SourceManual {
		t.Errorf("expected source %q, got %q", knowledge.SourceManual, created.Source)
	}
	if created.Category == "" {
		t.Error("expected classifier-assigned category")
	}

	if _, err := s.store.Get(created.ID); err != nil {
		t.Errorf("created record not in store: %v", err)
	}
}

func TestHandleFAQCreate_MissingFields(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t)

	for _, body := range []string{
		`{"question":"only a question"}`,
		`{"answer":"only an answer"}`,
		`{"question":"  ","answer":"  "}`,
		`not-json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/faqs", strings.NewReader(body))
		w := httptest.NewRecorder()

		s.handleFAQCreate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestHandleFAQGet_NotFound(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/faqs/faq-missing", nil)
	req.SetPathValue("id", "faq-missing")
	w := httptest.NewRecorder()

	s.handleFAQGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleFAQUpdate(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t,
		knowledge.Record{Question: "Old question?", Answer: "Old answer."},
	)
	id := s.store.List()[0].ID

	req := httptest.NewRequest(http.MethodPut, "/api/faqs/"+id,
		strings.NewReader(`{"question":"New question?","answer":"New answer."}`))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	s.handleFAQUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", w.Code, w.Body.String())
	}

	got, err := s.store.Get(id)
	if err != nil {
		t.Fatalf("get updated record: %v", err)
	}
	if got.Question != "New question?" || got.Answer != "New answer." {
		t.Errorf("record not updated: %+v", got)
	}
}

func TestHandleFAQUpdate_NotFound(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/faqs/faq-missing",
		strings.NewReader(`{"question":"q?","answer":"a."}`))
	req.SetPathValue("id", "faq-missing")
	w := httptest.NewRecorder()

	s.handleFAQUpdate(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleFAQDelete(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t,
		knowledge.Record{Question: "Delete me?", Answer: "Yes."},
	)
	id := s.store.List()[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/api/faqs/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	s.handleFAQDelete(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if s.store.Len() != 0 {
		t.Errorf("expected empty store after delete, got %d records", s.store.Len())
	}
}

func TestHandleFAQDelete_NotFound(t *testing.T) {
	t.Parallel()

	s := newFAQTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/faqs/faq-missing", nil)
	req.SetPathValue("id", "faq-missing")
	w := httptest.NewRecorder()

	s.handleFAQDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
