// Package instrumentation provides OpenTelemetry instrumentation for the
// slotbooker service.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, Google Calendar API calls,
//     availability checks and bookings
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - http_requests_in_flight: Gauge of requests currently being served
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Calendar API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Calendar API operation durations
//
// Availability Metrics:
//   - availability_checks_total: Counter of availability checks by status
//   - availability_slots_found: Histogram of free slots returned per check
//
// Booking Metrics:
//   - bookings_total: Counter of booking attempts by status
//   - booking_duration_seconds: Histogram of booking request durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - Google Calendar API calls (google.calendar.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: slotbooker)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "slotbooker",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/check-availability", 200, time.Since(start))
//
//	// Record a Calendar API operation
//	recorder.RecordGoogleAPIOperation(ctx, "calendar", "list", "success", time.Since(start))
//
//	// Record a booking
//	recorder.RecordBooking(ctx, "success", calendarID, time.Since(start))
package instrumentation
