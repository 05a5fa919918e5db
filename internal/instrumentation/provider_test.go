package instrumentation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newProvider(t *testing.T, config Config) *Provider {
	t.Helper()
	if config.ServiceName == "" {
		config.ServiceName = "labeler-test"
	}
	p, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func TestNewProviderDisabled(t *testing.T) {
	p := newProvider(t, Config{Enabled: false})

	if p.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if p.Metrics() == nil {
		t.Fatal("expected a recorder even when disabled")
	}
	// Recording on the disabled recorder must not panic.
	p.Metrics().RecordRun(context.Background(), "completed", time.Second)

	if p.Tracer("test") == nil {
		t.Error("expected a no-op tracer")
	}
	if p.Gatherer() != nil {
		t.Error("expected no gatherer when disabled")
	}
	if err := p.Push(context.Background(), "http://127.0.0.1:1", "inboxlabeler"); err != nil {
		t.Errorf("push should be a no-op when disabled, got %v", err)
	}
}

func TestNewProviderExporters(t *testing.T) {
	tests := []struct {
		name         string
		metrics      string
		tracing      string
		wantGatherer bool
	}{
		{name: "prometheus", metrics: ExporterPrometheus, tracing: ExporterNone, wantGatherer: true},
		{name: "default exporters", wantGatherer: true},
		{name: "stdout", metrics: ExporterStdout, tracing: ExporterStdout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProvider(t, Config{
				Enabled:           true,
				MetricsExporter:   tt.metrics,
				TracingExporter:   tt.tracing,
				TraceSamplingRate: 1,
			})

			if !p.Enabled() {
				t.Error("expected provider to be enabled")
			}
			if p.Metrics() == nil {
				t.Error("expected a recorder")
			}
			if got := p.Gatherer() != nil; got != tt.wantGatherer {
				t.Errorf("Gatherer() present = %v, want %v", got, tt.wantGatherer)
			}
		})
	}
}

func TestNewProviderRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "metrics exporter", config: Config{Enabled: true, MetricsExporter: "graphite"}},
		{name: "tracing exporter", config: Config{Enabled: true, TracingExporter: "zipkin"}},
		{name: "otlp without endpoint", config: Config{Enabled: true, TracingExporter: ExporterOTLP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(context.Background(), tt.config); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPushRequiresPrometheusExporter(t *testing.T) {
	p := newProvider(t, Config{Enabled: true, MetricsExporter: ExporterStdout})

	err := p.Push(context.Background(), "http://127.0.0.1:1", "inboxlabeler")
	if err == nil || !strings.Contains(err.Error(), "prometheus") {
		t.Errorf("expected exporter error, got %v", err)
	}
}

func TestPushSendsRunMetrics(t *testing.T) {
	var (
		mu                 sync.Mutex
		method, path, body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newProvider(t, Config{Enabled: true, MetricsExporter: ExporterPrometheus})
	ctx := context.Background()
	p.Metrics().RecordRun(ctx, "completed", 3*time.Second)

	if err := p.Push(ctx, srv.URL, "inboxlabeler"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if path != "/metrics/job/inboxlabeler" {
		t.Errorf("path = %s", path)
	}
	if body == "" {
		t.Error("expected a metrics payload")
	}
}

func TestPushReportsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newProvider(t, Config{Enabled: true, MetricsExporter: ExporterPrometheus})

	err := p.Push(context.Background(), srv.URL, "inboxlabeler")
	if err == nil {
		t.Fatal("expected error from failing pushgateway")
	}
	if !strings.Contains(err.Error(), srv.URL) {
		t.Errorf("expected error to name the gateway URL, got %v", err)
	}
}

func TestShutdownTwiceOnDisabledProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := p.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() #%d error = %v", i+1, err)
		}
	}
}
