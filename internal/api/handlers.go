package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quietfall/slotbooker/internal/availability"
	"github.com/quietfall/slotbooker/internal/gcal"
	"github.com/quietfall/slotbooker/internal/instrumentation"
	"github.com/quietfall/slotbooker/internal/localtime"
)

type checkRequest struct {
	Date            string `json:"date"`
	DurationMinutes *int   `json:"durationMinutes"`
	WorkStartHour   *int   `json:"workStartHour"`
	WorkEndHour     *int   `json:"workEndHour"`
}

type bookRequest struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type slotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type checkResponse struct {
	Slots []slotResponse `json:"slots"`
}

type bookedEvent struct {
	ID string `json:"id"`

	// HTMLLink is null when the provider did not return a link.
	HTMLLink *string `json:"htmlLink"`
}

type bookResponse struct {
	Status string      `json:"status"`
	Event  bookedEvent `json:"event"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Message: "Calendar API is running",
	})
}

func (a *API) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.metrics.RecordAvailabilityCheck(ctx, instrumentation.StatusError, 0)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	duration := a.defaultDuration
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	startHour := a.defaultStartHour
	if req.WorkStartHour != nil {
		startHour = *req.WorkStartHour
	}
	endHour := a.defaultEndHour
	if req.WorkEndHour != nil {
		endHour = *req.WorkEndHour
	}

	a.logger.DebugContext(ctx, "check payload",
		slog.String("date", req.Date),
		slog.Int("duration_minutes", duration),
		slog.Int("work_start_hour", startHour),
		slog.Int("work_end_hour", endHour),
	)

	ctx, span := instrumentation.StartSpan(ctx, "availability.check",
		instrumentation.NewSpanAttributeBuilder().
			WithCalendarID(a.calendarID).
			WithDate(req.Date).
			Build()...)
	defer span.End()

	if duration <= 0 {
		a.checkFailed(ctx, w, span, &availability.ValidationError{
			Field:  "durationMinutes",
			Reason: "must be positive",
		})
		return
	}

	day, err := localtime.ParseDate(req.Date, a.loc)
	if err != nil {
		a.checkFailed(ctx, w, span, err)
		return
	}

	window, err := availability.WindowForDay(day, startHour, endHour)
	if err != nil {
		a.checkFailed(ctx, w, span, err)
		return
	}

	slot := time.Duration(duration) * time.Minute

	// An empty window has no slots; skip the calendar round trip.
	if window.IsEmpty() {
		a.metrics.RecordAvailabilityCheck(ctx, instrumentation.StatusSuccess, 0)
		instrumentation.SetSpanSuccess(span)
		writeJSON(w, http.StatusOK, checkResponse{Slots: []slotResponse{}})
		return
	}

	busy, err := a.listBusy(ctx, window)
	if err != nil {
		a.checkFailed(ctx, w, span, err)
		return
	}

	slots, err := availability.FreeSlots(window, busy, slot)
	if err != nil {
		a.checkFailed(ctx, w, span, err)
		return
	}

	a.metrics.RecordAvailabilityCheck(ctx, instrumentation.StatusSuccess, len(slots))
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrSlotsFound, len(slots)))
	instrumentation.SetSpanSuccess(span)

	writeJSON(w, http.StatusOK, checkResponse{Slots: slotResponses(slots)})
}

// listBusy fetches busy intervals through the gateway, wrapped in its own
// client span and operation metric.
func (a *API) listBusy(ctx context.Context, window availability.Interval) ([]availability.Interval, error) {
	opCtx, opSpan := instrumentation.StartGoogleAPISpan(ctx,
		instrumentation.ServiceCalendar, instrumentation.OperationList,
		instrumentation.NewSpanAttributeBuilder().WithCalendarID(a.calendarID).Build()...)
	defer opSpan.End()

	started := time.Now()
	busy, err := a.gateway.BusyIntervals(opCtx, a.calendarID, window)
	a.metrics.RecordGoogleAPIOperation(ctx,
		instrumentation.ServiceCalendar, instrumentation.OperationList,
		statusFor(err), time.Since(started))

	if err != nil {
		instrumentation.SetSpanError(opSpan, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(opSpan)
	return busy, nil
}

func (a *API) checkFailed(ctx context.Context, w http.ResponseWriter, span trace.Span, err error) {
	a.metrics.RecordAvailabilityCheck(ctx, instrumentation.StatusError, 0)
	instrumentation.SetSpanError(span, err)
	a.writeDomainError(w, err)
}

func (a *API) handleBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.metrics.RecordBooking(ctx, instrumentation.StatusError, a.calendarID, time.Since(started))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a.logger.DebugContext(ctx, "book payload",
		slog.String("start", req.Start),
		slog.String("end", req.End),
		slog.String("summary", req.Summary),
	)

	ctx, span := instrumentation.StartSpan(ctx, "booking.create",
		instrumentation.NewSpanAttributeBuilder().WithCalendarID(a.calendarID).Build()...)
	defer span.End()

	record := instrumentation.NewBookingRecord(a.calendarID).WithSpanContext(ctx)

	start, err := localtime.ParseLocal(req.Start, a.loc)
	if err != nil {
		a.bookingFailed(ctx, w, span, record, started, err)
		return
	}
	end, err := localtime.ParseLocal(req.End, a.loc)
	if err != nil {
		a.bookingFailed(ctx, w, span, record, started, err)
		return
	}

	record.WithRequest(req.Summary, start, end)

	created, err := a.insertEvent(ctx, gcal.BookingInput{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       start,
		End:         end,
	})
	if err != nil {
		a.bookingFailed(ctx, w, span, record, started, err)
		return
	}

	a.audit.LogBooking(record.WithEventID(created.ID).CompleteSuccess())
	a.metrics.RecordBooking(ctx, instrumentation.StatusSuccess, a.calendarID, time.Since(started))
	span.SetAttributes(attribute.String(instrumentation.SpanAttrEventID, created.ID))
	instrumentation.SetSpanSuccess(span)

	writeJSON(w, http.StatusOK, bookResponse{
		Status: "confirmed",
		Event: bookedEvent{
			ID:       created.ID,
			HTMLLink: nullableLink(created.HTMLLink),
		},
	})
}

// insertEvent books the event through the gateway, wrapped in its own
// client span and operation metric.
func (a *API) insertEvent(ctx context.Context, input gcal.BookingInput) (*gcal.CreatedEvent, error) {
	opCtx, opSpan := instrumentation.StartGoogleAPISpan(ctx,
		instrumentation.ServiceCalendar, instrumentation.OperationInsert,
		instrumentation.NewSpanAttributeBuilder().WithCalendarID(a.calendarID).Build()...)
	defer opSpan.End()

	started := time.Now()
	created, err := a.gateway.CreateEvent(opCtx, a.calendarID, input)
	a.metrics.RecordGoogleAPIOperation(ctx,
		instrumentation.ServiceCalendar, instrumentation.OperationInsert,
		statusFor(err), time.Since(started))

	if err != nil {
		instrumentation.SetSpanError(opSpan, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(opSpan)
	return created, nil
}

func (a *API) bookingFailed(ctx context.Context, w http.ResponseWriter, span trace.Span, record *instrumentation.BookingRecord, started time.Time, err error) {
	a.audit.LogBooking(record.CompleteWithError(err))
	a.metrics.RecordBooking(ctx, instrumentation.StatusError, a.calendarID, time.Since(started))
	instrumentation.SetSpanError(span, err)
	a.writeDomainError(w, err)
}

// writeDomainError maps the typed errors of the localtime, availability
// and gcal packages onto HTTP status codes. Bad input is the client's
// fault, a gateway failure is upstream, anything else is ours.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	var (
		parseErr      *localtime.ParseError
		validationErr *availability.ValidationError
		gatewayErr    *gcal.GatewayError
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &gatewayErr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		a.logger.Error("unhandled error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func statusFor(err error) string {
	if err != nil {
		return instrumentation.StatusError
	}
	return instrumentation.StatusSuccess
}

func slotResponses(slots []availability.Interval) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
		})
	}
	return out
}

func nullableLink(link string) *string {
	if link == "" {
		return nil
	}
	return &link
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
