package knowledge

import "testing"

func Test_Merge_AddsNewCandidates(t *testing.T) {
	t.Parallel()

	merged, added := Merge(nil, []Record{
		{Question: "What is the fee?", Answer: "X"},
	}, "https://example.edu/fees")

	if added != 1 {
		t.Fatalf("want added=1, got %d", added)
	}
	if len(merged) != 1 {
		t.Fatalf("want 1 merged record, got %d", len(merged))
	}
	r := merged[0]
	if r.ID == "" {
		t.Error("merged record has no ID")
	}
	if r.Category != CategoryAdmissions {
		t.Errorf("want category Admissions, got %q", r.Category)
	}
	if r.Source != "https://example.edu/fees" {
		t.Errorf("want source attached, got %q", r.Source)
	}
}

func Test_Merge_DedupCaseInsensitive(t *testing.T) {
	t.Parallel()

	existing := []Record{
		{ID: "faq-1", Question: "Where is the library?", Answer: "Near the gate.", Category: CategoryFacilities},
	}
	merged, added := Merge(existing, []Record{
		{Question: "WHERE IS THE LIBRARY?", Answer: "Different answer, same question."},
	}, "https://example.edu/library")

	if added != 0 {
		t.Errorf("duplicate question must be dropped, got added=%d", added)
	}
	if len(merged) != len(existing) {
		t.Errorf("store count changed: want %d, got %d", len(existing), len(merged))
	}
	// First-writer-wins: the original answer survives.
	if merged[0].Answer != "Near the gate." {
		t.Errorf("original record was replaced: %q", merged[0].Answer)
	}
}

func Test_Merge_Idempotent(t *testing.T) {
	t.Parallel()

	candidates := []Record{
		{Question: "What courses are offered?", Answer: "B.Tech and M.Tech."},
		{Question: "Is there a hostel?", Answer: "Yes, for men and women."},
	}

	merged, added := Merge(nil, candidates, "https://example.edu/")
	if added != 2 {
		t.Fatalf("first pass: want added=2, got %d", added)
	}

	again, added := Merge(merged, candidates, "https://example.edu/")
	if added != 0 {
		t.Errorf("second pass: want added=0, got %d", added)
	}
	if len(again) != 2 {
		t.Errorf("second pass: want 2 records, got %d", len(again))
	}
}

func Test_Merge_DedupWithinCandidates(t *testing.T) {
	t.Parallel()

	merged, added := Merge(nil, []Record{
		{Question: "What is NAAC?", Answer: "An accreditation body."},
		{Question: "what is naac?", Answer: "Duplicate phrasing."},
	}, "https://example.edu/naac")

	if added != 1 || len(merged) != 1 {
		t.Errorf("want 1 added, got added=%d len=%d", added, len(merged))
	}
}

func Test_Merge_FreshUniqueIDs(t *testing.T) {
	t.Parallel()

	existing := []Record{{ID: "faq-1", Question: "Q1?", Answer: "A1"}}
	merged, _ := Merge(existing, []Record{
		{Question: "Q2?", Answer: "A2"},
		{Question: "Q3?", Answer: "A3"},
	}, "manual")

	ids := map[string]bool{}
	for _, r := range merged {
		if r.ID == "" {
			t.Fatalf("record %q has empty ID", r.Question)
		}
		if ids[r.ID] {
			t.Fatalf("duplicate ID %q", r.ID)
		}
		ids[r.ID] = true
	}
}

func Test_Merge_InputsUntouched(t *testing.T) {
	t.Parallel()

	existing := []Record{{ID: "faq-1", Question: "Q1?", Answer: "A1"}}
	candidates := []Record{{Question: "Q2?", Answer: "A2"}}

	Merge(existing, candidates, "manual")

	if candidates[0].ID != "" || candidates[0].Source != "" {
		t.Errorf("candidate slice was mutated: %+v", candidates[0])
	}
	if len(existing) != 1 {
		t.Errorf("existing slice was mutated: %d records", len(existing))
	}
}
