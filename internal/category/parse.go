package category

import "strings"

// rule maps any of its keywords, matched case-insensitively, to a category.
type rule struct {
	keywords []string
	category Category
}

// rules are evaluated in order; the first match wins. "not job app" must come first so that
// a hedged reply such as "not sure, but not job app." is not read as NotSure, and "reject"
// must precede "not sure".
var rules = []rule{
	{keywords: []string{"not job app", "not_job_related", "not job related"}, category: NotJobApplication},
	{keywords: []string{"applied"}, category: Applied},
	{keywords: []string{"reject", "rejection"}, category: Rejected},
	{keywords: []string{"next steps", "next step"}, category: NextSteps},
	{keywords: []string{"not sure"}, category: NotSure},
}

// Parse maps a raw oracle reply to a category. It never fails; replies that match nothing
// fall back to NotSure.
func Parse(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}

	// Exact canonical label anywhere in the reply.
	for _, c := range order {
		if strings.Contains(text, c.Label()) {
			return c
		}
	}

	return NotSure
}
