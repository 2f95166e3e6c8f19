// Package logging provides structured logging utilities for the meetfewer application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (user identifier anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "find_optimal_slots")
//	logger.Info("searching slots",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("user operation",
//	    logging.UserHash(user.ID))
//
// # Security Considerations
//
// Roster user IDs frequently are email addresses. They are hashed before
// logging to prevent PII leakage while still allowing correlation.
package logging
