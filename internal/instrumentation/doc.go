// Package instrumentation provides OpenTelemetry instrumentation for inboxlabeler runs.
//
// A run is a short-lived batch process, so metrics are collected in a private
// Prometheus registry and pushed to a Pushgateway when the run ends instead of
// being scraped.
//
// # Metrics
//
// Run Metrics:
//   - labeler_runs_total: Counter of runs by final state
//   - labeler_run_duration_seconds: Histogram of run durations
//
// Message Metrics:
//   - labeler_messages_labeled_total: Counter of labeled messages by category
//   - labeler_messages_skipped_total: Counter of messages that already carried a category label
//   - labeler_label_failures_total: Counter of label operations that failed, by reason
//
// Oracle Metrics:
//   - oracle_requests_total: Counter of language model requests by provider and status
//   - oracle_request_duration_seconds: Histogram of language model request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// # Tracing
//
// Spans are created for the run itself (labeler.run), each thread
// (labeler.thread), language model requests (oracle.classify) and Google API
// calls (google.<service>.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: inboxlabeler)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGoogleAPIOperation(ctx, "gmail", "search", "success", time.Since(start))
//
//	if err := provider.Push(ctx, "http://pushgateway:9091", "inboxlabeler"); err != nil {
//		slog.Warn("metrics push failed", "error", err)
//	}
package instrumentation
