package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/campusconnect/campusai-go/internal/knowledge"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ChatTimeout bounds a single /api/chat request end-to-end, including
	// retrieval and LLM generation. Defaults to 2 minutes if zero.
	ChatTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on the admin /api/faqs routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// MetricsRegistry receives the server's Prometheus metric registrations.
	// If nil, prometheus.DefaultRegisterer is used.
	MetricsRegistry prometheus.Registerer
	// MetricsGatherer backs the GET /metrics endpoint.
	// If nil, prometheus.DefaultGatherer is used.
	MetricsGatherer prometheus.Gatherer
}

// querier is the interface handleChat calls to answer a user message.
// *chat.Assistant satisfies it; tests inject a fake.
type querier interface {
	// Answer produces a grounded reply to question within the given session.
	Answer(ctx context.Context, sessionID, question string) (string, error)
}

// Server is the HTTP server that exposes the CampusConnect assistant and
// the admin FAQ management API.
type Server struct {
	// querier answers /api/chat requests; a *chat.Assistant in production,
	// a fake in tests.
	querier querier
	// store is the FAQ knowledge base backing the admin /api/faqs routes.
	store *knowledge.Store
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds all Prometheus metrics owned by this server.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	// Message is the user's question.
	Message string `json:"message"`
	// SessionID scopes conversation history. Optional; an empty value means
	// the turn is answered statelessly and not persisted.
	SessionID string `json:"sessionId,omitempty"`
}

// chatResponse is the JSON response for POST /api/chat.
type chatResponse struct {
	// Response is the assistant's reply text.
	Response string `json:"response"`
	// SessionID echoes the session the turn was recorded under, if any.
	SessionID string `json:"sessionId,omitempty"`
}

// faqRequest is the JSON body for POST /api/faqs and PUT /api/faqs/{id}.
type faqRequest struct {
	// Question is the FAQ question text.
	Question string `json:"question"`
	// Answer is the FAQ answer text.
	Answer string `json:"answer"`
	// Category is the topical bucket; left empty, the classifier assigns one
	// from the question and answer text.
	Category string `json:"category,omitempty"`
	// Source records where the entry came from (a URL or "manual").
	Source string `json:"source,omitempty"`
}

// faqListResponse is the JSON response for GET /api/faqs.
type faqListResponse struct {
	// Count is the number of entries returned.
	Count int `json:"count"`
	// FAQs is the full list of knowledge base records.
	FAQs []knowledge.Record `json:"faqs"`
}

// errorResponse is the JSON error body returned by API handlers.
type errorResponse struct {
	// Error is a human-readable description of what went wrong.
	Error string `json:"error"`
}
