package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/config"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the language model API key in the OS keychain",
	}
	cmd.AddCommand(newAPIKeySetCmd())
	cmd.AddCommand(newAPIKeyDeleteCmd())
	return cmd
}

func newAPIKeySetCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key for a provider",
		Long: `Store the API key for a provider in the OS keychain. The key is taken from
the argument or, when omitted, read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readSecret(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if err := config.SetAPIKey(provider, key); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API key stored for %s\n", provider)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "openai", "Provider the key belongs to: openai or gemini")
	return cmd
}

func newAPIKeyDeleteCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key for a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteAPIKey(provider); err != nil {
				return fmt.Errorf("failed to delete API key: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key deleted for %s\n", provider)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "openai", "Provider the key belongs to: openai or gemini")
	return cmd
}

// readSecret returns the first argument or a line read from in.
func readSecret(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if f, ok := in.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			fmt.Fprint(os.Stderr, "API key: ")
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
