package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/labeler"
	"github.com/teemow/inboxlabeler/internal/llm"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the category labels and test the language model connection",
		Long: `Create any missing category labels in Gmail, then send a test prompt to
the configured language model. Running setup again is safe: existing labels are
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context())
		},
	}
}

func runSetup(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mailbox, err := newMailbox(ctx, cfg.Account)
	if err != nil {
		return err
	}

	oracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	runner := labeler.New(mailbox, oracle, labelerConfig(cfg), labeler.WithLogger(slog.Default()))
	return bootstrap(ctx, runner, oracle)
}

// labelBootstrapper creates the category labels.
type labelBootstrapper interface {
	EnsureLabels(ctx context.Context) error
}

// bootstrap creates the labels and always runs the connectivity self-test. The
// label error, if any, is returned after the test.
func bootstrap(ctx context.Context, labels labelBootstrapper, oracle llm.Client) error {
	labelErr := labels.EnsureLabels(ctx)
	if labelErr != nil {
		slog.Error("label bootstrap incomplete", "error", labelErr)
	}

	if err := llm.CheckConnection(ctx, oracle); err != nil {
		slog.Warn("setup completed with API connection issues", "error", err)
	} else {
		slog.Info("setup completed", "provider", oracle.Provider(), "model", oracle.Model())
	}

	return labelErr
}
