// Package mail holds the provider-neutral view of mailbox data the labeler works on.
package mail

import "time"

// Record is the read-only projection of a message handed to the classifier.
type Record struct {
	Subject    string
	Sender     string
	Body       string
	ReceivedAt time.Time
}

// Message is a single message inside a thread together with its extracted record.
type Message struct {
	ID       string
	ThreadID string
	// LabelIDs are the provider label IDs currently attached to the message.
	LabelIDs []string
	Record   Record
}

// HasAnyLabel reports whether the message carries any of the given label IDs.
func (m Message) HasAnyLabel(ids map[string]bool) bool {
	for _, id := range m.LabelIDs {
		if ids[id] {
			return true
		}
	}
	return false
}

// Label is a user label in the mailbox.
type Label struct {
	ID   string
	Name string
}
