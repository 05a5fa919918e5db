// Package prompt renders the classification prompt sent to the oracle.
// The template is embedded at compile time and rendering is deterministic.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/teemow/inboxlabeler/internal/category"
	"github.com/teemow/inboxlabeler/internal/mail"
)

// BodyLimit is the number of body characters included in the prompt.
const BodyLimit = 1000

// SystemInstruction is sent as the system message of every classification request.
const SystemInstruction = "You are an email classifier that analyzes emails and categorizes them accurately."

//go:embed classify.tmpl
var classifyTemplate string

var tmpl = template.Must(template.New("classify").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(classifyTemplate))

type templateData struct {
	Subject    string
	Sender     string
	Body       string
	Categories []category.Category
	Example    string
	Fallback   string
}

// Build renders the classification prompt for a message record. The body is cut to
// BodyLimit characters, even mid-word.
func Build(rec mail.Record) string {
	data := templateData{
		Subject:    rec.Subject,
		Sender:     rec.Sender,
		Body:       Truncate(rec.Body, BodyLimit),
		Categories: category.All(),
		Example:    category.Applied.Label(),
		Fallback:   category.NotJobApplication.Label(),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		panic(fmt.Sprintf("failed to render classification prompt: %v", err))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
