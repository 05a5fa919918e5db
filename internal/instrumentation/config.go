package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ServiceGmail = "gmail"
)

// Exporter names accepted in Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// PushTimeout bounds the final Pushgateway push of a run.
const PushTimeout = 10 * time.Second

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config selects where a run's metrics and spans go. It is read from the standard
// OTEL_* variables plus a few labeler specific switches.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// ServiceInstanceID defaults to the hostname.
	ServiceInstanceID string

	// Enabled is false with INSTRUMENTATION_ENABLED=false; all recording becomes a no-op.
	Enabled bool

	// MetricsExporter is prometheus (default, also required for Pushgateway), otlp or stdout.
	MetricsExporter string
	// TracingExporter is none (default), otlp or stdout.
	TracingExporter string

	// OTLPEndpoint is host:port without scheme, e.g. "localhost:4318".
	OTLPEndpoint string
	OTLPInsecure bool

	// TraceSamplingRate is applied below the parent decision. A run produces few spans, so
	// the default samples all of them.
	TraceSamplingRate float64
}

// DefaultConfig reads the configuration from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envOr("OTEL_SERVICE_NAME", "inboxlabeler", parseString),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envOr("OTEL_SERVICE_INSTANCE_ID", "", parseString),
		Enabled:           envOr("INSTRUMENTATION_ENABLED", true, strconv.ParseBool),
		MetricsExporter:   envOr("METRICS_EXPORTER", ExporterPrometheus, parseLower),
		TracingExporter:   envOr("TRACING_EXPORTER", ExporterNone, parseLower),
		OTLPEndpoint:      envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "", parseString),
		OTLPInsecure:      envOr("OTEL_EXPORTER_OTLP_INSECURE", false, strconv.ParseBool),
		TraceSamplingRate: envOr("OTEL_TRACES_SAMPLER_ARG", 1.0, parseFloat),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %s", c.MetricsExporter, strings.Join(metricsExporters, ", "))
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %s", c.TracingExporter, strings.Join(tracingExporters, ", "))
	}
	if c.OTLPEndpoint == "" {
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
	}
	return nil
}

// envOr parses the variable key, falling back to def when it is unset or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseLower(s string) (string, error) { return strings.ToLower(strings.TrimSpace(s)), nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
