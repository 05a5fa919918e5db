package labeler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/inboxlabeler/internal/category"
	"github.com/teemow/inboxlabeler/internal/instrumentation"
	"github.com/teemow/inboxlabeler/internal/llm"
	"github.com/teemow/inboxlabeler/internal/logging"
	"github.com/teemow/inboxlabeler/internal/mail"
)

// Mailbox is the label store the runner reads from and writes to.
type Mailbox interface {
	// Search returns the IDs of the threads matching a Gmail-style query.
	Search(ctx context.Context, query string) ([]string, error)
	// ThreadMessages returns the messages of a thread in conversation order.
	ThreadMessages(ctx context.Context, threadID string) ([]mail.Message, error)
	// LabelByName returns nil without error when the label does not exist.
	LabelByName(ctx context.Context, name string) (*mail.Label, error)
	CreateLabel(ctx context.Context, name string) (*mail.Label, error)
	AddLabelToThread(ctx context.Context, threadID, labelID string) error
	AddLabelToMessage(ctx context.Context, messageID, labelID string) error
}

// Oracle answers a classification prompt with free text.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() llm.Provider
}

// Scope selects what receives the category label.
type Scope string

const (
	// ScopeMessage classifies and labels every unlabeled message on its own.
	ScopeMessage Scope = "message"
	// ScopeThread classifies the newest unlabeled message of a thread and labels
	// the whole thread with the result.
	ScopeThread Scope = "thread"
)

// Config holds the per-run settings.
type Config struct {
	Account      string
	LookbackDays int
	Budget       time.Duration
	Scope        Scope
}

// State is the lifecycle state of a Runner.
type State string

const (
	StateIdle          State = "idle"
	StateRunning       State = "running"
	StateCompleted     State = "completed"
	StateBudgetExpired State = "budget_expired"
	StateFailed        State = "failed"
)

// Summary describes the outcome of one run.
type Summary struct {
	RunID            string
	State            State
	ThreadsFound     int
	ThreadsProcessed int
	MessagesLabeled  int
	MessagesSkipped  int
	LabelFailures    int
	OracleFailures   int
	ByCategory       map[category.Category]int
	Elapsed          time.Duration
}

// Runner executes labeling runs. It is not safe for concurrent use.
type Runner struct {
	mailbox Mailbox
	oracle  Oracle
	config  Config

	now     func() time.Time
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	runID   string

	labels map[category.Category]*mail.Label
	state  State
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the wall clock used for the budget.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// New creates a Runner in the Idle state.
func New(mailbox Mailbox, oracle Oracle, cfg Config, opts ...Option) *Runner {
	if cfg.Scope == "" {
		cfg.Scope = ScopeMessage
	}

	r := &Runner{
		mailbox: mailbox,
		oracle:  oracle,
		config:  cfg,
		now:     time.Now,
		logger:  slog.Default(),
		labels:  make(map[category.Category]*mail.Label),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}

	r.logger = logging.WithRunID(logging.WithAccount(r.logger, cfg.Account), r.runID)
	return r
}

// State returns the state reached by the most recent run.
func (r *Runner) State() State {
	return r.state
}

// RunID returns the identifier attached to logs, spans and the summary.
func (r *Runner) RunID() string {
	return r.runID
}
