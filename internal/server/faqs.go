package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campusconnect/campusai-go/internal/knowledge"
	"github.com/campusconnect/campusai-go/internal/logging"
)

// handleFAQList handles GET /api/faqs and returns every knowledge base record.
func (s *Server) handleFAQList(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()
	writeJSON(w, http.StatusOK, faqListResponse{Count: len(records), FAQs: records})
}

// handleFAQCreate handles POST /api/faqs. Question and answer are required;
// category and source are optional and filled in by the store.
func (s *Server) handleFAQCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFAQRequest(w, r)
	if !ok {
		return
	}

	created, err := s.store.Create(knowledge.Record{
		Question: req.Question,
		Answer:   req.Answer,
		Category: knowledge.Category(req.Category),
		Source:   req.Source,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("faq create failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleFAQGet handles GET /api/faqs/{id}.
func (s *Server) handleFAQGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleFAQUpdate handles PUT /api/faqs/{id}, replacing the record's text.
func (s *Server) handleFAQUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFAQRequest(w, r)
	if !ok {
		return
	}

	updated, err := s.store.Update(r.PathValue("id"), knowledge.Record{
		Question: req.Question,
		Answer:   req.Answer,
		Category: knowledge.Category(req.Category),
		Source:   req.Source,
	})
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		logging.FromContext(r.Context()).Error("faq update failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleFAQDelete handles DELETE /api/faqs/{id}.
func (s *Server) handleFAQDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		logging.FromContext(r.Context()).Error("faq delete failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// decodeFAQRequest parses and validates the shared create/update body.
// On failure it writes the 400 response and returns ok=false.
func decodeFAQRequest(w http.ResponseWriter, r *http.Request) (faqRequest, bool) {
	var req faqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return faqRequest{}, false
	}
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Question == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "question and answer are required")
		return faqRequest{}, false
	}
	return req, true
}
