package labeler

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/inboxlabeler/internal/category"
)

// queryDateLayout is the after: operand format.
const queryDateLayout = "2006-01-02"

// BuildQuery returns the search for inbox mail received after since that carries
// none of the category labels. The date is taken in UTC.
func BuildQuery(since time.Time) string {
	terms := []string{
		"in:inbox",
		"after:" + since.UTC().Format(queryDateLayout),
	}
	for _, c := range category.All() {
		terms = append(terms, fmt.Sprintf("-label:%q", c.Label()))
	}
	return strings.Join(terms, " ")
}
