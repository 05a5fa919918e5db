package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxlabeler/internal/llm"
)

type stubLabels struct {
	err   error
	calls int
}

func (s *stubLabels) EnsureLabels(context.Context) error {
	s.calls++
	return s.err
}

type stubOracle struct {
	reply string
	err   error
	calls int
}

func (o *stubOracle) Complete(context.Context, string) (string, error) {
	o.calls++
	return o.reply, o.err
}
func (o *stubOracle) Provider() llm.Provider { return llm.ProviderOpenAI }
func (o *stubOracle) Model() string          { return "gpt-4o-mini" }
func (o *stubOracle) Close() error           { return nil }

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

func TestBootstrap(t *testing.T) {
	labelErr := errors.New(`failed to create label "[LBot]: Reject": quota exceeded`)

	tests := []struct {
		name     string
		labelErr error
		reply    string
		oracle   error
		wantLogs []string
	}{
		{
			name:     "labels and connection fine",
			reply:    "OK",
			wantLogs: []string{"setup completed"},
		},
		{
			name:     "label failure still checks the connection",
			labelErr: labelErr,
			reply:    "OK",
			wantLogs: []string{"label bootstrap incomplete", "quota exceeded", "setup completed"},
		},
		{
			name:     "both fail",
			labelErr: labelErr,
			oracle:   errors.New("connection refused"),
			wantLogs: []string{"label bootstrap incomplete", "setup completed with API connection issues"},
		},
		{
			name:     "connection issues only",
			reply:    "no idea",
			wantLogs: []string{"setup completed with API connection issues"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			labels := &stubLabels{err: tt.labelErr}
			oracle := &stubOracle{reply: tt.reply, err: tt.oracle}

			err := bootstrap(context.Background(), labels, oracle)

			if tt.labelErr != nil {
				require.ErrorIs(t, err, tt.labelErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, labels.calls)
			assert.Equal(t, 1, oracle.calls, "connectivity test always runs")
			for _, want := range tt.wantLogs {
				assert.Contains(t, logs.String(), want)
			}
		})
	}
}
