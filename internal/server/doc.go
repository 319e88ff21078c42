// Package server assembles and runs the HTTP servers of the booking
// service.
//
// # Key Components
//
// APIServer mounts the api package's routes on a chi router together
// with the request-id, access-log, metrics and recovery middleware, and
// wraps the whole router in otelhttp when instrumentation is enabled.
//
// MetricsServer serves the Prometheus scrape endpoint on a dedicated
// port so operational metrics never share a listener with client
// traffic.
//
// HealthChecker tracks readiness and shutdown state and provides the
// /healthz, /readyz and /healthz/detailed endpoints.
//
// Both servers expose StartWithReadySignal so callers can block until
// the listener is bound, and both resolve port 0 to the actual bound
// address, which the tests rely on.
package server
