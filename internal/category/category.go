package category

import "strings"

// Category is one classification outcome, applied to the mailbox as a label.
type Category string

const (
	Applied           Category = "applied"
	Rejected          Category = "rejected"
	NextSteps         Category = "next_steps"
	NotSure           Category = "not_sure"
	NotJobApplication Category = "not_job_application"
)

// LabelPrefix marks every label owned by the labeler.
const LabelPrefix = "[LBot]: "

type definition struct {
	label       string
	description string
}

var definitions = map[Category]definition{
	Applied: {
		label:       LabelPrefix + "Applied",
		description: "Confirmation emails for job applications submitted",
	},
	Rejected: {
		label:       LabelPrefix + "Reject",
		description: "Rejection emails or emails indicating the application was not successful",
	},
	NextSteps: {
		label:       LabelPrefix + "Next steps",
		description: "Emails asking for availability, assessments, interviews, or any next steps in the hiring process",
	},
	NotSure: {
		label:       LabelPrefix + "Not sure",
		description: "If it is job application related but you are not sure about the status",
	},
	NotJobApplication: {
		label:       LabelPrefix + "Not job app.",
		description: "If the email is clearly not related to a job application or position, please double check the email is not about a job application or position.",
	},
}

// order is the presentation order used in prompts and search queries.
var order = []Category{Applied, Rejected, NextSteps, NotSure, NotJobApplication}

// All returns every category in presentation order.
func All() []Category {
	out := make([]Category, len(order))
	copy(out, order)
	return out
}

// Label returns the canonical mailbox label name, e.g. "[LBot]: Applied".
func (c Category) Label() string {
	return definitions[c].label
}

// Description returns the semantic definition given to the oracle.
func (c Category) Description() string {
	return definitions[c].description
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	_, ok := definitions[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// FromLabel maps a mailbox label name back to its category.
// Label names are compared case-insensitively, as Gmail does.
func FromLabel(name string) (Category, bool) {
	for _, c := range order {
		if strings.EqualFold(c.Label(), name) {
			return c, true
		}
	}
	return "", false
}

// Labels returns the label names of all categories in presentation order.
func Labels() []string {
	names := make([]string, 0, len(order))
	for _, c := range order {
		names = append(names, c.Label())
	}
	return names
}
