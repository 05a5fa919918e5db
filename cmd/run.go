package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/gmail"
	"github.com/teemow/inboxlabeler/internal/google"
	"github.com/teemow/inboxlabeler/internal/instrumentation"
	"github.com/teemow/inboxlabeler/internal/labeler"
)

// pushJob is the Pushgateway job name for run metrics.
const pushJob = "inboxlabeler"

func newRunCmd() *cobra.Command {
	var lockFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify unlabeled inbox mail and apply category labels",
		Long: `Search the Gmail inbox for recent messages without a category label,
classify each one with the configured language model and apply the matching
label. The run stops once the configured time budget is used up; the next run
continues with the messages that are still unlabeled.

This is the default command, so a scheduler can call the binary without
arguments. Use --lock-file to skip a run while a previous one is still active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabeler(cmd.Context(), lockFile)
		},
	}

	cmd.Flags().StringVar(&lockFile, "lock-file", "", "Skip the run if another process holds this lock file")
	return cmd
}

func runLabeler(ctx context.Context, lockFile string) error {
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if lockFile != "" {
		lock := flock.New(lockFile)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", lockFile, err)
		}
		if !locked {
			slog.Info("another run is active, skipping", "lock_file", lockFile)
			return nil
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				slog.Warn("failed to release lock", "lock_file", lockFile, "error", err)
			}
		}()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("error during instrumentation shutdown", "error", err)
		}
	}()

	mailbox, err := newMailbox(ctx, cfg.Account)
	if err != nil {
		return err
	}
	mailbox.SetMetrics(provider.Metrics())
	mailbox.SetMaxSearchPages(cfg.MaxSearchPages)

	oracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	runner := labeler.New(mailbox, oracle, labelerConfig(cfg),
		labeler.WithLogger(slog.Default()),
		labeler.WithMetrics(provider.Metrics()),
	)

	_, runErr := runner.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := provider.Push(context.WithoutCancel(ctx), cfg.PushgatewayURL, pushJob); err != nil {
			slog.Warn("failed to push run metrics", "pushgateway", cfg.PushgatewayURL, "error", err)
		}
	}

	return runErr
}

// newMailbox opens the Gmail client, pointing at the auth command when no token exists.
func newMailbox(ctx context.Context, account string) (*gmail.Client, error) {
	if !gmail.HasTokenForAccount(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}
	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
	}
	return client, nil
}
