package gmail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxlabeler/internal/mail"
)

// Label visibility settings for labels created by the labeler.
const (
	labelListVisibility   = "labelShow"
	messageListVisibility = "show"
	labelTypeUser         = "user"
)

// ListLabels lists all Gmail labels for the user
func (c *Client) ListLabels(ctx context.Context) ([]*gmail.Label, error) {
	var labels []*gmail.Label
	err := c.observe(ctx, "list_labels", func(ctx context.Context) error {
		resp, err := c.svc.Labels.List(userID).Context(ctx).Do()
		if err != nil {
			return err
		}
		labels = resp.Labels
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// LabelByName looks up a user label by display name, ignoring case as Gmail does.
// It returns nil without error when no such label exists.
func (c *Client) LabelByName(ctx context.Context, name string) (*mail.Label, error) {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		if strings.EqualFold(l.Name, name) {
			return &mail.Label{ID: l.Id, Name: l.Name}, nil
		}
	}
	return nil, nil
}

// CreateLabel creates a visible user label with the given name.
func (c *Client) CreateLabel(ctx context.Context, name string) (*mail.Label, error) {
	var created *gmail.Label
	err := c.observe(ctx, "create_label", func(ctx context.Context) error {
		var err error
		created, err = c.svc.Labels.Create(userID, &gmail.Label{
			Name:                  name,
			Type:                  labelTypeUser,
			LabelListVisibility:   labelListVisibility,
			MessageListVisibility: messageListVisibility,
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return &mail.Label{ID: created.Id, Name: created.Name}, nil
}

// AddLabelToThread adds a label to every message of a thread. Adding a label that is
// already present is a no-op on the Gmail side.
func (c *Client) AddLabelToThread(ctx context.Context, threadID, labelID string) error {
	err := c.observe(ctx, "modify_thread", func(ctx context.Context) error {
		_, err := c.svc.Threads.Modify(userID, threadID, &gmail.ModifyThreadRequest{
			AddLabelIds: []string{labelID},
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to label thread %s: %w", threadID, err)
	}
	return nil
}

// AddLabelToMessage adds a label to a single message.
func (c *Client) AddLabelToMessage(ctx context.Context, messageID, labelID string) error {
	err := c.observe(ctx, "modify_message", func(ctx context.Context) error {
		_, err := c.svc.Messages.Modify(userID, messageID, &gmail.ModifyMessageRequest{
			AddLabelIds: []string{labelID},
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to label message %s: %w", messageID, err)
	}
	return nil
}
