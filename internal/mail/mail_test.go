package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_HasAnyLabel(t *testing.T) {
	m := Message{ID: "m1", LabelIDs: []string{"INBOX", "Label_7"}}

	assert.True(t, m.HasAnyLabel(map[string]bool{"Label_7": true}))
	assert.False(t, m.HasAnyLabel(map[string]bool{"Label_8": true}))
	assert.False(t, m.HasAnyLabel(nil))
	assert.False(t, Message{}.HasAnyLabel(map[string]bool{"INBOX": true}))
}
