package gcal

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/quietfall/slotbooker/internal/availability"
	"github.com/quietfall/slotbooker/internal/localtime"
)

// BookingInput represents the input for booking a calendar event.
type BookingInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// CreatedEvent identifies an event after a successful booking. HTMLLink is
// empty when the API did not return one.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// eventInterval converts a Google Calendar event into a busy interval in
// loc. It reports false for events without usable start and end times.
func eventInterval(event *calendar.Event, loc *time.Location) (availability.Interval, bool) {
	start, ok := eventBound(event.Start, loc)
	if !ok {
		return availability.Interval{}, false
	}

	end, ok := eventBound(event.End, loc)
	if !ok {
		return availability.Interval{}, false
	}

	return availability.Interval{Start: start, End: end}, true
}

// eventBound resolves one edge of an event. Timed events carry a DateTime
// with an offset and are converted into loc; all-day events carry a bare
// Date and become local midnight.
func eventBound(edt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}

	raw := edt.DateTime
	if raw == "" {
		raw = edt.Date
	}
	if raw == "" {
		return time.Time{}, false
	}

	t, err := localtime.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
