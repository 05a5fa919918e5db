package gmail

import (
	"encoding/base64"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxlabeler/internal/mail"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

// Extract projects a full Gmail message into the provider-neutral message view.
// Missing headers or bodies produce empty fields rather than errors.
func Extract(m *gmail.Message) mail.Message {
	if m == nil {
		return mail.Message{}
	}

	labels := make([]string, len(m.LabelIds))
	copy(labels, m.LabelIds)

	return mail.Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		LabelIDs: labels,
		Record: mail.Record{
			Subject:    HeaderValue(m, "Subject"),
			Sender:     HeaderValue(m, "From"),
			Body:       PlainBody(m),
			ReceivedAt: receivedAt(m),
		},
	}
}

// HeaderValue extracts a header value from a Gmail message
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if strings.EqualFold(mph.Name, header) {
			return mph.Value
		}
	}
	return ""
}

// PlainBody returns the text/plain body of a message. When the message only carries
// HTML, the visible text of the HTML part is returned instead.
func PlainBody(m *gmail.Message) string {
	if m == nil || m.Payload == nil {
		return ""
	}

	if text, ok := firstBody(m.Payload, mimeTextPlain); ok {
		return text
	}
	if html, ok := firstBody(m.Payload, mimeTextHTML); ok {
		text, err := htmlToText(html)
		if err != nil {
			return ""
		}
		return text
	}
	return ""
}

// firstBody finds the first decodable part with the given MIME type.
func firstBody(payload *gmail.MessagePart, mimeType string) (string, bool) {
	var (
		body  string
		found bool
	)
	walkParts(payload, func(part *gmail.MessagePart) {
		if found || part.MimeType != mimeType || part.Body == nil || part.Body.Data == "" {
			return
		}
		decoded, err := decodeBody(part.Body.Data)
		if err != nil {
			return
		}
		body, found = decoded, true
	})
	return body, found
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// decodeBody decodes base64url-encoded body data (RFC 4648), accepting padded,
// unpadded and standard alphabets.
func decodeBody(data string) (string, error) {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		if decoded, err := enc.DecodeString(data); err == nil {
			return string(decoded), nil
		}
	}
	return "", fmt.Errorf("failed to decode message body")
}

// htmlToText returns the visible text of an HTML document with whitespace collapsed.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML body: %w", err)
	}
	doc.Find("script, style, head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// receivedAt prefers Gmail's internal date and falls back to the Date header.
func receivedAt(m *gmail.Message) time.Time {
	if m.InternalDate > 0 {
		return time.UnixMilli(m.InternalDate).UTC()
	}
	if t, err := netmail.ParseDate(HeaderValue(m, "Date")); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
