package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxlabeler/internal/config"
	"github.com/teemow/inboxlabeler/internal/logging"
)

// rootCmd represents the base command for the inboxlabeler application
var rootCmd = &cobra.Command{
	Use:   "inboxlabeler",
	Short: "Labels job application emails in Gmail with a language model",
	Long: `inboxlabeler scans recent Gmail inbox messages that carry none of its
category labels, asks a language model to classify each one as a stage of a
job application, and applies the matching label:

  [LBot]: Applied       application confirmations
  [LBot]: Reject        rejections
  [LBot]: Next steps    interviews, assessments, availability requests
  [LBot]: Not sure      job related but unclear
  [LBot]: Not job app.  everything else

A run stops after a fixed time budget; the next run picks up the messages
that are still unlabeled.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.NewLogger(os.Stderr, logFormat, debugMode)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Persistent flags shared by all commands.
var (
	configPath string
	logFormat  string
	debugMode  bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxlabeler version %s\n" .Version}}`)
	rootCmd.SetArgs(withDefaultCommand(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withDefaultCommand runs the labeler when no subcommand is provided.
func withDefaultCommand(args []string) []string {
	if len(args) == 0 {
		return []string{"run"}
	}
	return args
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("Path to the YAML config file (default: ./%s if present)", config.DefaultPath))
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newAPIKeyCmd())
	rootCmd.AddCommand(newVersionCmd())
}
