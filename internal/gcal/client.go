package gcal

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/quietfall/slotbooker/internal/availability"
)

// GatewayError wraps a failure to reach or use the Google Calendar API.
// Handlers translate it into an upstream error response.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("calendar gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Config configures the gateway client.
type Config struct {
	// Tokens supplies credentials for each API call.
	Tokens TokenProvider

	// Location is the time zone busy intervals are projected into.
	// Defaults to time.Local.
	Location *time.Location

	// Endpoint overrides the Calendar API base URL, for tests and local
	// emulators. Empty means the public Google endpoint.
	Endpoint string
}

// Client wraps the Google Calendar service for availability lookups and
// event booking.
type Client struct {
	tokens   TokenProvider
	loc      *time.Location
	endpoint string
}

// NewClient creates a new Calendar gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Client{
		tokens:   cfg.Tokens,
		loc:      loc,
		endpoint: cfg.Endpoint,
	}, nil
}

// service builds a Calendar API service for a single call. Credentials
// are resolved fresh each time.
func (c *Client) service(ctx context.Context) (*calendar.Service, error) {
	ts, err := c.tokens.TokenSource(ctx)
	if err != nil {
		return nil, &GatewayError{Op: "authorize", Err: err}
	}

	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, &GatewayError{Op: "create service", Err: err}
	}

	return svc, nil
}

// BusyIntervals returns the busy intervals of calendarID that overlap the
// window, projected into the client's time zone. Recurring events are
// expanded into single instances and returned in start order. Events whose
// bounds cannot be read are skipped.
func (c *Client) BusyIntervals(ctx context.Context, calendarID string, window availability.Interval) ([]availability.Interval, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	events, err := svc.Events.List(calendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &GatewayError{Op: "list events", Err: err}
	}

	busy := make([]availability.Interval, 0, len(events.Items))
	for _, event := range events.Items {
		if iv, ok := eventInterval(event, c.loc); ok {
			busy = append(busy, iv)
		}
	}

	return busy, nil
}

// CreateEvent books a new event on calendarID and returns its identity.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input BookingInput) (*CreatedEvent, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
		},
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, &GatewayError{Op: "insert event", Err: err}
	}

	return &CreatedEvent{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
	}, nil
}
