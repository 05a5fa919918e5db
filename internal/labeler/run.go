package labeler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/inboxlabeler/internal/category"
	"github.com/teemow/inboxlabeler/internal/instrumentation"
	"github.com/teemow/inboxlabeler/internal/llm"
	"github.com/teemow/inboxlabeler/internal/logging"
	"github.com/teemow/inboxlabeler/internal/mail"
	"github.com/teemow/inboxlabeler/internal/prompt"
)

// errNoLabels is returned when bootstrap leaves no category label usable.
var errNoLabels = errors.New("no category label is available")

// batch carries the state of a single invocation of Run.
type batch struct {
	*Runner
	start   time.Time
	summary *Summary
	logger  *slog.Logger
}

// Run executes one labeling run. Completed and BudgetExpired runs return a nil error;
// a Failed run returns the error that stopped it. The summary is never nil.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	b := &batch{
		Runner: r,
		start:  r.now(),
		summary: &Summary{
			RunID:      r.runID,
			State:      StateRunning,
			ByCategory: make(map[category.Category]int),
		},
		logger: logging.WithOperation(r.logger, "run"),
	}
	r.state = StateRunning

	ctx, span := instrumentation.StartSpan(ctx, "labeler.run",
		instrumentation.NewSpanAttributeBuilder().
			WithAccount(r.config.Account).
			WithRunID(r.runID).
			Build()...)

	state, err := b.execute(ctx)

	b.summary.State = state
	b.summary.Elapsed = r.now().Sub(b.start)
	r.state = state

	b.logSummary(ctx, err)
	r.metrics.RecordRun(ctx, string(state), b.summary.Elapsed)
	instrumentation.EndSpan(span, err)

	return b.summary, err
}

func (b *batch) execute(ctx context.Context) (State, error) {
	if err := b.EnsureLabels(ctx); err != nil {
		if len(b.labels) == 0 {
			return StateFailed, fmt.Errorf("label bootstrap failed: %w: %w", errNoLabels, err)
		}
		b.logger.Warn("continuing with partial labels", "available", len(b.labels))
	}

	since := b.start.AddDate(0, 0, -b.config.LookbackDays)
	query := BuildQuery(since)
	b.logger.Debug("searching", "query", query)

	threadIDs, err := b.mailbox.Search(ctx, query)
	if err != nil {
		return StateFailed, fmt.Errorf("search failed: %w", err)
	}
	b.summary.ThreadsFound = len(threadIDs)
	b.logger.Info("threads found", "count", len(threadIDs))

	if len(threadIDs) == 0 {
		return StateCompleted, nil
	}

	for _, threadID := range threadIDs {
		if state, err := b.checkpoint(ctx); state != "" {
			return state, err
		}
		if state, err := b.processThread(ctx, threadID); state != "" {
			return state, err
		}
		b.summary.ThreadsProcessed++
	}

	return StateCompleted, nil
}

// checkpoint returns the terminal state when the run must stop before the next
// item, or an empty State to continue.
func (b *batch) checkpoint(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateFailed, fmt.Errorf("run cancelled: %w", err)
	}
	if elapsed := b.now().Sub(b.start); elapsed >= b.config.Budget {
		b.logger.Warn("time budget exhausted",
			"elapsed", elapsed,
			"budget", b.config.Budget,
			"threads_completed", b.summary.ThreadsProcessed,
			"messages_labeled", b.summary.MessagesLabeled,
		)
		return StateBudgetExpired, nil
	}
	return "", nil
}

// processThread handles every message of a thread. Like checkpoint it returns an
// empty State when the run may continue.
func (b *batch) processThread(ctx context.Context, threadID string) (State, error) {
	ctx, span := instrumentation.StartSpan(ctx, "labeler.thread",
		instrumentation.NewSpanAttributeBuilder().WithThread(threadID).Build()...)
	defer span.End()

	msgs, err := b.mailbox.ThreadMessages(ctx, threadID)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return StateFailed, fmt.Errorf("failed to read thread %s: %w", threadID, err)
	}

	labeled := b.categoryLabelIDs()
	latest := latestUnlabeled(msgs, labeled)

	for i, m := range msgs {
		if state, err := b.checkpoint(ctx); state != "" {
			return state, err
		}

		if m.HasAnyLabel(labeled) {
			b.skip(ctx, m, "message already labeled")
			continue
		}
		// A thread label reflects the latest stage of the conversation.
		if b.config.Scope == ScopeThread && i != latest {
			b.skip(ctx, m, "superseded by a later message")
			continue
		}

		c, err := b.classify(ctx, m)
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return StateFailed, err
		}

		b.apply(ctx, m, c)
	}

	instrumentation.SetSpanSuccess(span)
	return "", nil
}

// latestUnlabeled returns the index of the newest message without a category
// label, or -1.
func latestUnlabeled(msgs []mail.Message, labeled map[string]bool) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].HasAnyLabel(labeled) {
			return i
		}
	}
	return -1
}

func (b *batch) skip(ctx context.Context, m mail.Message, reason string) {
	b.summary.MessagesSkipped++
	b.metrics.RecordMessageSkipped(ctx)
	b.logger.Debug(reason, logging.ThreadID(m.ThreadID), logging.MessageID(m.ID))
}

// classify maps a message to a category. Oracle failures and panics become NotSure;
// only cancellation of ctx is returned as an error.
func (b *batch) classify(ctx context.Context, m mail.Message) (c category.Category, err error) {
	defer func() {
		if p := recover(); p != nil {
			b.summary.OracleFailures++
			b.logger.Error("classification panicked",
				logging.ThreadID(m.ThreadID),
				logging.MessageID(m.ID),
				"panic", fmt.Sprint(p),
			)
			c, err = category.NotSure, nil
		}
	}()

	reply, err := b.ask(ctx, m, prompt.Build(m.Record))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("run cancelled: %w", ctxErr)
		}
		b.summary.OracleFailures++
		b.logger.Warn("classification failed, using fallback category",
			logging.ThreadID(m.ThreadID),
			logging.MessageID(m.ID),
			"kind", llm.KindOf(err).String(),
			logging.Category(string(category.NotSure)),
			logging.Err(err),
		)
		return category.NotSure, nil
	}

	return category.Parse(reply), nil
}

// ask sends the prompt to the oracle inside a span and records the request.
func (b *batch) ask(ctx context.Context, m mail.Message, p string) (reply string, err error) {
	provider := string(b.oracle.Provider())
	ctx, span := instrumentation.StartOracleSpan(ctx, provider,
		instrumentation.NewSpanAttributeBuilder().WithThread(m.ThreadID).WithMessage(m.ID).Build()...)
	start := time.Now()
	defer func() {
		b.metrics.RecordOracleRequest(ctx, provider, instrumentation.StatusFor(err), time.Since(start))
		instrumentation.EndSpan(span, err)
	}()

	return b.oracle.Complete(ctx, p)
}

// apply adds the category label. Failures are counted and leave the message for
// the next run.
func (b *batch) apply(ctx context.Context, m mail.Message, c category.Category) {
	logger := b.logger.With(logging.ThreadID(m.ThreadID), logging.MessageID(m.ID))

	label, err := b.resolveLabel(ctx, c)
	if err != nil {
		b.summary.LabelFailures++
		b.metrics.RecordLabelFailure(ctx, failureCreate)
		logger.Error("label unavailable, message left for next run", logging.Category(string(c)), logging.Err(err))
		return
	}

	if b.config.Scope == ScopeMessage {
		err = b.mailbox.AddLabelToMessage(ctx, m.ID, label.ID)
	} else {
		err = b.mailbox.AddLabelToThread(ctx, m.ThreadID, label.ID)
	}
	if err != nil {
		b.summary.LabelFailures++
		b.metrics.RecordLabelFailure(ctx, failureApply)
		logger.Error("failed to apply label", logging.Category(string(c)), logging.Err(err))
		return
	}

	trace.SpanFromContext(ctx).AddEvent("labeled", trace.WithAttributes(
		instrumentation.NewSpanAttributeBuilder().WithMessage(m.ID).WithCategory(string(c)).Build()...))

	b.summary.MessagesLabeled++
	b.summary.ByCategory[c]++
	b.metrics.RecordMessageLabeled(ctx, string(c))
	logger.Info("labeled",
		"subject", m.Record.Subject,
		logging.SenderHash(m.Record.Sender),
		logging.Category(string(c)),
		"label", label.Name,
	)
}

func (b *batch) logSummary(ctx context.Context, err error) {
	s := b.summary
	attrs := []any{
		logging.Status(string(s.State)),
		"threads_found", s.ThreadsFound,
		"threads_processed", s.ThreadsProcessed,
		"messages_labeled", s.MessagesLabeled,
		"messages_skipped", s.MessagesSkipped,
		"label_failures", s.LabelFailures,
		"oracle_failures", s.OracleFailures,
		slog.Duration(logging.KeyDuration, s.Elapsed),
	}
	for _, c := range category.All() {
		if n := s.ByCategory[c]; n > 0 {
			attrs = append(attrs, "count_"+string(c), n)
		}
	}
	if traceID := instrumentation.GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, "trace_id", traceID)
	}

	if err != nil {
		b.logger.Error("run failed", append(attrs, logging.Err(err))...)
		return
	}
	b.logger.Info("run finished", attrs...)
}
