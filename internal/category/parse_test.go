package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Category
	}{
		{"not job app wins over not sure", "Not Sure, but Not Job App.", NotJobApplication},
		{"canonical not job label", "[LBot]: Not job app.", NotJobApplication},
		{"not_job_related token", "NOT_JOB_RELATED", NotJobApplication},
		{"not job related phrase", "This is not job related at all", NotJobApplication},
		{"not job app beats applied", "You applied? No, not job app.", NotJobApplication},
		{"canonical applied label", "[LBot]: Applied", Applied},
		{"applied lowercase", "applied", Applied},
		{"applied wins over reject", "Applied, later rejected", Applied},
		{"rejection upper case", "This is a REJECTION notice", Rejected},
		{"canonical reject label", "[LBot]: Reject", Rejected},
		{"reject wins over not sure", "Not sure, probably rejected", Rejected},
		{"next steps", "[LBot]: Next steps", NextSteps},
		{"next step singular", "Looks like a next step in the process", NextSteps},
		{"not sure", "[LBot]: Not sure", NotSure},
		{"unrelated text", "Thanks for your purchase", NotSure},
		{"empty", "", NotSure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.response))
		})
	}
}

func TestParse_NotJobAppPrecedence(t *testing.T) {
	for _, extra := range []string{"applied", "reject", "next steps", "not sure", "[LBot]: Applied"} {
		assert.Equal(t, NotJobApplication, Parse(extra+" ... NoT JoB aPp"), "with %q", extra)
	}
}

func TestParse_EveryLabelRoundTrips(t *testing.T) {
	for _, c := range All() {
		assert.Equal(t, c, Parse(c.Label()), "label %q", c.Label())
	}
}
