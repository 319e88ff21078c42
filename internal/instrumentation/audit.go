package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// BookingRecord captures all information about a booking attempt for audit
// logging. Bookings are the only write operation the service performs, so
// every attempt leaves a record.
//
// # Privacy Considerations
//
// The CalendarID field is an email address and the Summary field is user
// content. When logging, consider:
//   - Using CalendarDomain() to get only the domain for metrics/general logs
//   - Only logging the full calendar ID and summary in audit-specific streams
//   - Ensuring audit logs have appropriate access controls
type BookingRecord struct {
	// Target calendar
	CalendarID string

	// Requested event
	Summary string
	Start   time.Time
	End     time.Time

	// EventID is set once the booking succeeds
	EventID string

	// Execution details
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewBookingRecord creates a new BookingRecord with timing started.
// Call Complete() when the booking attempt finishes.
func NewBookingRecord(calendarID string) *BookingRecord {
	return &BookingRecord{
		CalendarID: calendarID,
		StartedAt:  time.Now(),
	}
}

// WithRequest sets the requested event details.
func (r *BookingRecord) WithRequest(summary string, start, end time.Time) *BookingRecord {
	r.Summary = summary
	r.Start = start
	r.End = end
	return r
}

// WithEventID sets the identifier of the created event.
func (r *BookingRecord) WithEventID(eventID string) *BookingRecord {
	r.EventID = eventID
	return r
}

// WithSpanContext extracts trace context from the current span.
func (r *BookingRecord) WithSpanContext(ctx context.Context) *BookingRecord {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.TraceID = span.SpanContext().TraceID().String()
		r.SpanID = span.SpanContext().SpanID().String()
	}
	return r
}

// Complete marks the attempt as completed and calculates duration.
// Returns the same BookingRecord for method chaining.
func (r *BookingRecord) Complete(success bool, err error) *BookingRecord {
	r.Duration = time.Since(r.StartedAt)
	r.Success = success
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// CompleteWithError marks the attempt as failed with the given error.
func (r *BookingRecord) CompleteWithError(err error) *BookingRecord {
	return r.Complete(false, err)
}

// CompleteSuccess marks the attempt as successful.
func (r *BookingRecord) CompleteSuccess() *BookingRecord {
	return r.Complete(true, nil)
}

// CalendarDomain returns the domain portion of the calendar ID for
// lower-cardinality logging.
func (r *BookingRecord) CalendarDomain() string {
	return ExtractDomain(r.CalendarID)
}

// Status returns "success" or "error" based on the Success field.
func (r *BookingRecord) Status() string {
	if r.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
//
// # Cardinality
//
// This method uses cardinality-controlled values (calendar_domain) and
// withholds the event summary. For full audit logging, use LogAuditAttrs.
func (r *BookingRecord) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("calendar_domain", r.CalendarDomain()),
		slog.Duration("duration", r.Duration),
		slog.Bool("success", r.Success),
	}

	// Add optional fields only if present
	if !r.Start.IsZero() {
		attrs = append(attrs, slog.Time("event_start", r.Start))
	}
	if !r.End.IsZero() {
		attrs = append(attrs, slog.Time("event_end", r.End))
	}
	if r.EventID != "" {
		attrs = append(attrs, slog.String("event_id", r.EventID))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// the calendar ID and the event summary.
//
// # Security Warning
//
// This method includes PII. Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (r *BookingRecord) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("calendar_id", r.CalendarID),
		slog.String("summary", r.Summary),
		slog.Duration("duration", r.Duration),
		slog.Bool("success", r.Success),
	}

	if !r.Start.IsZero() {
		attrs = append(attrs, slog.Time("event_start", r.Start))
	}
	if !r.End.IsZero() {
		attrs = append(attrs, slog.Time("event_end", r.End))
	}
	if r.EventID != "" {
		attrs = append(attrs, slog.String("event_id", r.EventID))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID))
	}
	if r.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", r.SpanID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for booking attempts.
// It wraps slog.Logger with convenience methods for logging write operations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs (anonymized identifiers are used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether to include calendar IDs and summaries in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogBooking logs a booking attempt. If the logger is configured with
// IncludePII, the full calendar ID and summary are logged; otherwise only
// domain-based anonymized identifiers are used.
func (al *AuditLogger) LogBooking(r *BookingRecord) {
	if !al.enabled {
		return
	}

	// Choose between PII and anonymized logging based on configuration
	var attrs []slog.Attr
	if al.includePII {
		attrs = r.LogAuditAttrs()
	} else {
		attrs = r.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if r.Success {
		al.logger.Info("booking_created", args...)
	} else {
		al.logger.Warn("booking_failed", args...)
	}
}
