// Package cmd implements the command-line interface for inboxlabeler.
//
// This package provides the following commands:
//   - run: Classify unlabeled inbox mail and apply category labels (default)
//   - setup: Create the category labels and test the language model connection
//   - check: Test the language model connection
//   - auth: Authorize Gmail access for an account
//   - apikey: Store or remove the language model API key in the OS keychain
//   - version: Display version information
//
// The run command is the default command when no subcommand is specified, so a
// scheduler can invoke the binary without arguments.
package cmd
