package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxlabeler/internal/google"
	"github.com/teemow/inboxlabeler/internal/instrumentation"
	"github.com/teemow/inboxlabeler/internal/mail"
)

// userID is the special Gmail user ID for the authenticated account.
const userID = "me"

// Search paging. A run cannot work through more threads than this within its
// budget; the rest are found again by the next run.
const (
	searchPageSize        = 100
	DefaultMaxSearchPages = 5
)

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	metrics *instrumentation.Metrics

	maxSearchPages int
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication for a specific account.
// The token must have been stored beforehand with the auth command.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return NewClientWithService(svc, account), nil
}

// NewClientWithService creates a client around an already configured Gmail service.
func NewClientWithService(svc *gmail.Service, account string) *Client {
	return &Client{
		svc:            svc.Users,
		account:        account,
		maxSearchPages: DefaultMaxSearchPages,
	}
}

// SetMetrics attaches a metrics recorder. A nil recorder disables recording.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// SetMaxSearchPages limits how many result pages Search fetches. Values below one
// restore the default.
func (c *Client) SetMaxSearchPages(n int) {
	if n < 1 {
		n = DefaultMaxSearchPages
	}
	c.maxSearchPages = n
}

// observe runs fn inside a Google API span and records the outcome.
func (c *Client) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, operation)
	start := time.Now()

	err := fn(ctx)

	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, operation, instrumentation.StatusFor(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	return err
}

// Search returns the IDs of the threads matching the query, in the order Gmail returns
// them. At most the configured number of pages is fetched, and the context is checked
// before each page.
func (c *Client) Search(ctx context.Context, q string) ([]string, error) {
	var ids []string
	err := c.observe(ctx, "search", func(ctx context.Context) error {
		pageToken := ""
		for page := 0; page < c.maxSearchPages; page++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			req := c.svc.Threads.List(userID).Q(q).MaxResults(searchPageSize).Context(ctx)
			if pageToken != "" {
				req.PageToken(pageToken)
			}
			res, err := req.Do()
			if err != nil {
				return err
			}
			for _, t := range res.Threads {
				ids = append(ids, t.Id)
			}
			if res.NextPageToken == "" {
				return nil
			}
			pageToken = res.NextPageToken
		}

		slog.Info("search results truncated, remaining threads left for the next run",
			"account", c.account,
			"pages", c.maxSearchPages,
			"threads", len(ids),
		)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search threads: %w", err)
	}
	return ids, nil
}

// GetThread retrieves a full Gmail thread with all its messages
func (c *Client) GetThread(ctx context.Context, threadID string) (*gmail.Thread, error) {
	var thread *gmail.Thread
	err := c.observe(ctx, "get_thread", func(ctx context.Context) error {
		var err error
		thread, err = c.svc.Threads.Get(userID, threadID).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}
	return thread, nil
}

// ThreadMessages returns the messages of a thread in conversation order.
func (c *Client) ThreadMessages(ctx context.Context, threadID string) ([]mail.Message, error) {
	thread, err := c.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	msgs := make([]mail.Message, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		msg := Extract(m)
		if msg.ThreadID == "" {
			msg.ThreadID = threadID
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
