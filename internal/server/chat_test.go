package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Fake querier for chat handler tests
// ---------------------------------------------------------------------------

// fakeQuerier implements the querier interface for tests.
type fakeQuerier struct {
	// response is returned as the answer on each call.
	response string
	// err is returned as the error value.
	err error
	// gotSession records the sessionID of the last call.
	gotSession string
	// gotQuestion records the question of the last call.
	gotQuestion string
}

func (f *fakeQuerier) Answer(_ context.Context, sessionID, question string) (string, error) {
	f.gotSession = sessionID
	f.gotQuestion = question
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// newTestServer builds a minimal *Server with an isolated metrics registry,
// suitable for calling handlers directly.
func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		querier: &fakeQuerier{},
		cfg: &Config{
			ChatTimeout:     time.Minute,
			MetricsRegistry: reg,
			MetricsGatherer: reg,
		},
		log:     slog.Default(),
		metrics: newServerMetrics(reg),
	}
}

// newChatTestServer builds a *Server wired with the given querier fake.
func newChatTestServer(q querier) *Server {
	s := newTestServer()
	s.querier = q
	return s
}

// ---------------------------------------------------------------------------
// POST /api/chat — validation error paths
// ---------------------------------------------------------------------------

func TestHandleChat_MissingMessage(t *testing.T) {
	t.Parallel()

	s := newChatTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"sessionId":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleChat_BlankMessage(t *testing.T) {
	t.Parallel()

	s := newChatTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	t.Parallel()

	s := newChatTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`not-json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// POST /api/chat — happy path and failure
// ---------------------------------------------------------------------------

func TestHandleChat_Success(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{response: "The library is open 8am to 10pm."}
	s := newChatTestServer(q)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"library hours?","sessionId":"sess-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != q.response {
		t.Errorf("response: expected %q, got %q", q.response, resp.Response)
	}
	if resp.SessionID != "sess-1" {
		t.Errorf("sessionId: expected %q, got %q", "sess-1", resp.SessionID)
	}
	if q.gotSession != "sess-1" || q.gotQuestion != "library hours?" {
		t.Errorf("querier saw session=%q question=%q", q.gotSession, q.gotQuestion)
	}
}

func TestHandleChat_SessionOptional(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{response: "ok"}
	s := newChatTestServer(q)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if q.gotSession != "" {
		t.Errorf("expected empty session, got %q", q.gotSession)
	}
}

func TestHandleChat_QuerierError(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{err: fmt.Errorf("history store unavailable")}
	s := newChatTestServer(q)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected non-empty error message")
	}
}
