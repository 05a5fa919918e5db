package labeler

import (
	"context"
	"errors"
	"fmt"

	"github.com/teemow/inboxlabeler/internal/category"
	"github.com/teemow/inboxlabeler/internal/logging"
	"github.com/teemow/inboxlabeler/internal/mail"
)

// Label failure reasons recorded in metrics.
const (
	failureCreate = "create"
	failureApply  = "apply"
)

// EnsureLabels looks up every category label and creates the missing ones. Labels
// already resolved by this Runner are not looked up again. A failure for one label
// is logged and the remaining labels are still processed; the returned error joins
// all per-label failures.
func (r *Runner) EnsureLabels(ctx context.Context) error {
	logger := logging.WithOperation(r.logger, "ensure_labels")

	var errs []error
	for _, c := range category.All() {
		if _, ok := r.labels[c]; ok {
			continue
		}
		if _, err := r.resolveLabel(ctx, c); err != nil {
			logger.Error("label unavailable", "label", c.Label(), logging.Err(err))
			r.metrics.RecordLabelFailure(ctx, failureCreate)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolveLabel finds or creates the label for c and caches it.
func (r *Runner) resolveLabel(ctx context.Context, c category.Category) (*mail.Label, error) {
	if l, ok := r.labels[c]; ok {
		return l, nil
	}

	name := c.Label()
	l, err := r.mailbox.LabelByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up label %q: %w", name, err)
	}
	if l != nil {
		r.logger.Debug("label exists", "label", name)
	} else {
		l, err = r.mailbox.CreateLabel(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create label %q: %w", name, err)
		}
		r.logger.Info("label created", "label", name)
	}

	r.labels[c] = l
	return l, nil
}

// categoryLabelIDs returns the IDs of all resolved category labels.
func (r *Runner) categoryLabelIDs() map[string]bool {
	ids := make(map[string]bool, len(r.labels))
	for _, l := range r.labels {
		ids[l.ID] = true
	}
	return ids
}
