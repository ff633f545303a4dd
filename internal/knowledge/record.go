// Package knowledge implements the FAQ knowledge store: the persisted
// collection of question/answer records that both retrieval engines read.
// The store is a single JSON file (the original data.json shape) rewritten
// atomically on every mutation, so readers never observe a partial write.
package knowledge

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get, Update, and Delete when no record with the
// requested ID exists.
var ErrNotFound = errors.New("knowledge: record not found")

// Category labels a record with the section of university life it covers.
// The set is fixed; Classify assigns one deterministically.
type Category string

const (
	// CategoryAdministration covers leadership, governance, and officers.
	CategoryAdministration Category = "Administration"
	// CategoryAdmissions covers applications, fees, eligibility, and entrance exams.
	CategoryAdmissions Category = "Admissions"
	// CategoryAcademics covers courses, programmes, syllabi, and departments.
	CategoryAcademics Category = "Academics"
	// CategoryFacilities covers hostels, the library, labs, and campus infrastructure.
	CategoryFacilities Category = "Facilities"
	// CategoryContact covers addresses, phone numbers, and directions.
	CategoryContact Category = "Contact & Location"
	// CategoryPlacements covers jobs, recruiting, and internships.
	CategoryPlacements Category = "Placements"
	// CategoryGeneral covers history, accreditation, and the university at large.
	CategoryGeneral Category = "General Info"
	// CategoryOther is the fallback when no rule matches.
	CategoryOther Category = "Other"
)

// SourceManual is the provenance value for records created by an
// administrator rather than the ingestion pipeline.
const SourceManual = "manual"

// Record is the unit of retrievable knowledge: one question/answer pair with
// a category label and its provenance.
type Record struct {
	// ID is the unique identifier, assigned at creation and stable for the
	// record's lifetime.
	ID string `json:"id"`

	// Question is the searchable question text.
	Question string `json:"question"`

	// Answer is the answer text.
	Answer string `json:"answer"`

	// Category is the classifier-assigned section label.
	Category Category `json:"category"`

	// Source is the provenance: the URL the record was extracted from, or
	// SourceManual for admin-created records.
	Source string `json:"source"`
}

// Merge folds candidates into existing, returning the merged collection and
// the count of newly added records. A candidate whose question matches an
// existing record's question case-insensitively is silently dropped
// (first-writer-wins); surviving candidates receive a fresh collision-checked
// ID, a classifier-assigned category, and the given source.
//
// Merge never mutates its inputs, so it can be tested without any store,
// network, or LLM in play.
func Merge(existing, candidates []Record, source string) ([]Record, int) {
	seen := make(map[string]bool, len(existing))
	ids := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[strings.ToLower(r.Question)] = true
		ids[r.ID] = true
	}

	merged := make([]Record, len(existing), len(existing)+len(candidates))
	copy(merged, existing)

	added := 0
	for _, c := range candidates {
		key := strings.ToLower(c.Question)
		if seen[key] {
			continue
		}
		seen[key] = true

		c.ID = newRecordID(ids)
		ids[c.ID] = true
		c.Category = Classify(c.Question, c.Answer)
		c.Source = source
		merged = append(merged, c)
		added++
	}

	return merged, added
}

// newRecordID generates a record ID that does not collide with any ID in
// taken, regenerating until a free value is found.
func newRecordID(taken map[string]bool) string {
	for {
		id := "faq-" + uuid.NewString()
		if !taken[id] {
			return id
		}
	}
}

// NewID returns a fresh record ID with no collision set. Callers that hold a
// Store should prefer Store.Create, which checks against stored IDs.
func NewID() string {
	return "faq-" + uuid.NewString()
}

// shortHex returns n random hex characters, used to suffix temp file names.
func shortHex(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return strings.Repeat("0", n)
	}
	return hex.EncodeToString(b)[:n]
}
