package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/llm"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test the language model connection",
		Long: `Send a fixed prompt to the configured language model and verify that the
reply contains "OK". Exits with a non-zero status when the check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runCheck(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	oracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer oracle.Close()

	if err := llm.CheckConnection(ctx, oracle); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s connection OK (model %s)\n", oracle.Provider(), oracle.Model())
	return err
}
