package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with calendar identifiers.

// ExtractDomain extracts the domain part from an email-shaped identifier,
// such as a Google Calendar ID. This reduces cardinality by using the
// domain instead of the full address.
//
// Example:
//
//	ExtractDomain("jane@example.com")  // "example.com"
//	ExtractDomain("team@gmail.com")    // "gmail.com"
//	ExtractDomain("primary")           // "unknown"
//	ExtractDomain("")                  // "unknown"
func ExtractDomain(id string) string {
	if id == "" {
		return "unknown"
	}

	parts := strings.Split(id, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for Google API metrics.
// Status and Service constants are defined in config.go.
const (
	OperationList   = "list"
	OperationInsert = "insert"
)
