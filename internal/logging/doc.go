// Package logging provides structured logging utilities for the slotbooker
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Global handler setup (text or JSON) via Setup
//   - Consistent attribute naming across the codebase
//   - PII sanitization (calendar ID anonymization)
//
// # Usage Patterns
//
// Install the global logger once at startup:
//
//	logger := logging.Setup(debug, logging.FormatJSON)
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.check")
//	logger.Info("availability computed",
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("booking created",
//	    logging.CalendarHash(calendarID))
//
// # Security Considerations
//
// Calendar IDs are email addresses. They are hashed (CalendarHash) or reduced
// to their domain (Domain) before logging to prevent PII leakage while still
// allowing correlation.
package logging
