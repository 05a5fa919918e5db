package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrState     = "state"
	attrCategory  = "category"
	attrProvider  = "provider"
	attrReason    = "reason"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Run metrics
	runsTotal   metric.Int64Counter
	runDuration metric.Float64Histogram

	// Message metrics
	messagesLabeledTotal metric.Int64Counter
	messagesSkippedTotal metric.Int64Counter
	labelFailuresTotal   metric.Int64Counter

	// Oracle metrics
	oracleRequestsTotal   metric.Int64Counter
	oracleRequestDuration metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// Run Metrics
	m.runsTotal, err = meter.Int64Counter(
		"labeler_runs_total",
		metric.WithDescription("Total number of labeling runs by final state"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler_runs_total counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"labeler_run_duration_seconds",
		metric.WithDescription("Labeling run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 15, 30, 60, 120, 180, 240, 300, 360),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler_run_duration_seconds histogram: %w", err)
	}

	// Message Metrics
	m.messagesLabeledTotal, err = meter.Int64Counter(
		"labeler_messages_labeled_total",
		metric.WithDescription("Total number of messages labeled by category"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler_messages_labeled_total counter: %w", err)
	}

	m.messagesSkippedTotal, err = meter.Int64Counter(
		"labeler_messages_skipped_total",
		metric.WithDescription("Total number of messages skipped because they already carry a category label"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler_messages_skipped_total counter: %w", err)
	}

	m.labelFailuresTotal, err = meter.Int64Counter(
		"labeler_label_failures_total",
		metric.WithDescription("Total number of failed label applications"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeler_label_failures_total counter: %w", err)
	}

	// Oracle Metrics
	m.oracleRequestsTotal, err = meter.Int64Counter(
		"oracle_requests_total",
		metric.WithDescription("Total number of classification requests sent to the language model"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle_requests_total counter: %w", err)
	}

	m.oracleRequestDuration, err = meter.Float64Histogram(
		"oracle_request_duration_seconds",
		metric.WithDescription("Language model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle_request_duration_seconds histogram: %w", err)
	}

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordRun records the end of a labeling run with its final state and duration.
func (m *Metrics) RecordRun(ctx context.Context, state string, duration time.Duration) {
	if m == nil || m.runsTotal == nil || m.runDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(attribute.String(attrState, state))
	m.runsTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMessageLabeled records a message that received a category label.
func (m *Metrics) RecordMessageLabeled(ctx context.Context, category string) {
	if m == nil || m.messagesLabeledTotal == nil {
		return
	}
	m.messagesLabeledTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCategory, category)))
}

// RecordMessageSkipped records a message that was not classified because it is already labeled.
func (m *Metrics) RecordMessageSkipped(ctx context.Context) {
	if m == nil || m.messagesSkippedTotal == nil {
		return
	}
	m.messagesSkippedTotal.Add(ctx, 1)
}

// RecordLabelFailure records a label that could not be applied or created.
//
// Parameters:
//   - reason: "apply" when modifying a thread or message failed, "create" when the label itself is missing
func (m *Metrics) RecordLabelFailure(ctx context.Context, reason string) {
	if m == nil || m.labelFailuresTotal == nil {
		return
	}
	m.labelFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}

// RecordOracleRequest records a classification request with provider, status, and duration.
func (m *Metrics) RecordOracleRequest(ctx context.Context, provider, status string, duration time.Duration) {
	if m == nil || m.oracleRequestsTotal == nil || m.oracleRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	)
	m.oracleRequestsTotal.Add(ctx, 1, attrs)
	m.oracleRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail)
//   - operation: Operation type (search, get_thread, list_labels, create_label, modify_thread, modify_message)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// StatusFor maps an error to the status label value.
func StatusFor(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
