// Package api implements the HTTP surface of the booking service.
//
// The package mounts three routes on a chi router: a root status
// endpoint, an availability check (reachable under two paths for
// compatibility with older clients), and a booking endpoint. Handlers
// talk to Google Calendar through the Gateway interface so tests can
// substitute a fake, and translate the domain errors of the localtime,
// availability and gcal packages into HTTP status codes.
//
// Request-scoped middleware lives here too: request-id assignment,
// access logging and HTTP metrics. Tracing of the outer request is left
// to the otelhttp wrapper applied at server assembly.
package api
