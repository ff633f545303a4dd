package knowledge

import "strings"

// categoryRule pairs a category with the keyword fragments that select it.
type categoryRule struct {
	// category is assigned when any keyword matches.
	category Category
	// keywords are lowercase fragments matched as substrings of question+answer.
	keywords []string
}

// categoryRules is evaluated in priority order; the first matching rule wins.
// The ordering is significant: "dean of examinations" must classify as
// Administration even though "exam" is also an Admissions keyword.
var categoryRules = []categoryRule{
	{CategoryAdministration, []string{
		"vice-chancellor", "rector", "registrar", "dean", "principal",
		"executive council", "senate", "officer", "administration",
		"leadership", "governance",
	}},
	{CategoryAdmissions, []string{
		"admission", "apply", "fee", "scholarship", "eligibility",
		"entrance", "exam", "rank", "seat", "application", "dates",
	}},
	{CategoryAcademics, []string{
		"course", "program", "syllabus", "curriculum", "degree", "b.tech",
		"m.tech", "phd", "academic", "department", "faculty", "class",
		"studies",
	}},
	{CategoryFacilities, []string{
		"hostel", "library", "wifi", "transport", "bus", "sports", "gym",
		"canteen", "lab", "facility", "infrastructure", "building",
		"campus", "center",
	}},
	{CategoryContact, []string{
		"address", "phone", "email", "location", "where is", "contact",
		"reach",
	}},
	{CategoryPlacements, []string{
		"placement", "job", "recruit", "salary", "package", "internship",
		"career",
	}},
	{CategoryGeneral, []string{
		"history", "established", "motto", "vision", "mission", "naac",
		"ranking", "about", "founder", "accreditation",
	}},
}

// Classify assigns a category to a question/answer pair by keyword matching
// over the concatenated, lowercased text. Rules are evaluated in a fixed
// priority order and the first match wins, so the same input always yields
// the same category. Returns CategoryOther when nothing matches.
func Classify(question, answer string) Category {
	text := strings.ToLower(question + " " + answer)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
