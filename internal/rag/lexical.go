package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/campusconnect/campusai-go/internal/knowledge"
)

// Lexical scores FAQ records by literal token overlap with the query — no
// embeddings, no external services. It operates on a snapshot of the
// knowledge store taken at Retrieve time, so admin edits are visible on the
// next query without any reindexing.
type Lexical struct {
	// store provides the record corpus for each retrieval.
	store *knowledge.Store
}

// NewLexical constructs a Lexical retriever over the given knowledge store.
func NewLexical(store *knowledge.Store) (*Lexical, error) {
	if store == nil {
		return nil, fmt.Errorf("rag: knowledge store must not be nil")
	}
	return &Lexical{store: store}, nil
}

// Retrieve tokenizes the query by whitespace after lowercasing and scores
// every record: one point for each query token that appears as a substring
// of question+answer+category, plus a bonus point when the token also hits
// the question alone, so question matches weigh double. Records scoring zero
// are excluded; the rest are ordered by score descending.
//
// Ties keep the record order of the corpus snapshot (sort is stable), so the
// ranking among equal scores follows the stored order and changes if the
// store is reordered.
func (l *Lexical) Retrieve(_ context.Context, query string, topK int) ([]Document, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	records := l.store.List()
	return ScoreRecords(records, tokens, topK), nil
}

// scored pairs a record with its overlap score during ranking.
type scored struct {
	record knowledge.Record
	score  int
}

// ScoreRecords ranks records against the lowercased query tokens and returns
// the top-k as formatted documents. Exposed so tests and the refine tooling
// can rank an arbitrary corpus without a backing store file.
func ScoreRecords(records []knowledge.Record, tokens []string, topK int) []Document {
	var hits []scored
	for _, r := range records {
		question := strings.ToLower(r.Question)
		searchable := question + " " + strings.ToLower(r.Answer) + " " + strings.ToLower(string(r.Category))

		score := 0
		for _, tok := range tokens {
			if strings.Contains(searchable, tok) {
				score++
				if strings.Contains(question, tok) {
					score++
				}
			}
		}
		if score > 0 {
			hits = append(hits, scored{record: r, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	docs := make([]Document, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, Document{
			ID:      h.record.ID,
			Content: Snippet(h.record),
			Source:  h.record.Source,
			Metadata: map[string]string{
				"question": h.record.Question,
				"answer":   h.record.Answer,
				"category": string(h.record.Category),
			},
			Score: float32(h.score),
		})
	}
	return docs
}

// Snippet formats a record for prompt injection: the category in brackets
// when present, then the question and answer on separate lines.
func Snippet(r knowledge.Record) string {
	var sb strings.Builder
	if r.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(r.Category))
		sb.WriteString("] ")
	}
	sb.WriteString("Q: ")
	sb.WriteString(r.Question)
	sb.WriteString("\nA: ")
	sb.WriteString(r.Answer)
	return sb.String()
}
