package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/config"
	"github.com/teemow/inboxlabeler/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Gmail access for an account",
		Long: `Print the Google OAuth consent URL, then exchange the authorization code
for a token that is cached for later runs.

The OAuth client is read from GOOGLE_CREDENTIALS_FILE or from
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET. Pass the code with --code or paste
it when prompted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				account = cfg.Account
			}
			return runAuth(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), account, code)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name for the cached token (default: account from config)")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the consent page")
	return cmd
}

func runAuth(ctx context.Context, in io.Reader, out io.Writer, account, code string) error {
	if code == "" {
		authURL, err := google.GetAuthURL()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Open this URL in your browser and authorize access:\n\n%s\n\n", authURL)
		fmt.Fprint(out, "Authorization code: ")

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		code = strings.TrimSpace(line)
	}
	if code == "" {
		return fmt.Errorf("authorization code is empty")
	}

	if err := google.SaveToken(ctx, account, code); err != nil {
		return err
	}

	fmt.Fprintf(out, "Token saved for account %s\n", account)
	return nil
}
