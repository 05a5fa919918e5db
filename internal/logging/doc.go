// Package logging provides structured logging utilities for the inboxlabeler application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "labeler.run")
//	logger.Info("labeled",
//	    logging.ThreadID(threadID),
//	    logging.Category(string(c)))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("extracted message",
//	    logging.SenderHash(record.Sender))
//
// # Security Considerations
//
// Sender addresses are hashed so log lines can be correlated without exposing PII.
// API keys are never logged directly; use SanitizeToken.
package logging
