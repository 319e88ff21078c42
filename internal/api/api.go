package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quietfall/slotbooker/internal/availability"
	"github.com/quietfall/slotbooker/internal/gcal"
	"github.com/quietfall/slotbooker/internal/instrumentation"
)

// Defaults applied when a check request omits a field. They mirror a
// standard working day of half-hour meetings.
const (
	DefaultDurationMinutes = 30
	DefaultWorkStartHour   = 9
	DefaultWorkEndHour     = 17
)

// Gateway is the calendar backend the handlers talk to. *gcal.Client
// satisfies it; tests substitute a fake.
type Gateway interface {
	BusyIntervals(ctx context.Context, calendarID string, window availability.Interval) ([]availability.Interval, error)
	CreateEvent(ctx context.Context, calendarID string, input gcal.BookingInput) (*gcal.CreatedEvent, error)
}

// Config configures the API handlers.
type Config struct {
	// Gateway is the calendar backend. Required.
	Gateway Gateway

	// CalendarID is the calendar all requests operate on. Required.
	CalendarID string

	// Location is the zone wall-clock request fields are interpreted in.
	// Defaults to time.Local.
	Location *time.Location

	// Logger receives access and payload logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records request and gateway metrics. A nil value disables
	// metric recording.
	Metrics *instrumentation.Metrics

	// Audit receives a record for every booking attempt. Defaults to an
	// enabled, PII-free audit logger.
	Audit *instrumentation.AuditLogger

	// Request defaults. Zero values fall back to the package defaults
	// (30 minutes, 9 to 17).
	DefaultDurationMinutes int
	DefaultWorkStartHour   int
	DefaultWorkEndHour     int
}

// API holds the HTTP handlers for the booking service.
type API struct {
	gateway    Gateway
	calendarID string
	loc        *time.Location
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger

	defaultDuration  int
	defaultStartHour int
	defaultEndHour   int
}

// New creates the API handler set.
func New(cfg Config) (*API, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}
	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("calendar ID cannot be empty")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	audit := cfg.Audit
	if audit == nil {
		audit = instrumentation.NewAuditLogger(logger)
	}

	duration := cfg.DefaultDurationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}
	startHour := cfg.DefaultWorkStartHour
	endHour := cfg.DefaultWorkEndHour
	if startHour == 0 && endHour == 0 {
		startHour = DefaultWorkStartHour
		endHour = DefaultWorkEndHour
	}

	return &API{
		gateway:          cfg.Gateway,
		calendarID:       cfg.CalendarID,
		loc:              loc,
		logger:           logger,
		metrics:          metrics,
		audit:            audit,
		defaultDuration:  duration,
		defaultStartHour: startHour,
		defaultEndHour:   endHour,
	}, nil
}

// Routes mounts the API routes on the provided router. The check
// handler is reachable under both of its historical paths.
func (a *API) Routes(r chi.Router) {
	r.Get("/", a.handleRoot)
	r.Post("/calendar/check", a.handleCheck)
	r.Post("/calendar/checkAvailability", a.handleCheck)
	r.Post("/calendar/book", a.handleBook)
}
