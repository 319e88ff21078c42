package availability

import (
	"fmt"
	"sort"
	"time"
)

// Interval is a half-open time span [Start, End). It is used for the
// working-day window, for busy calendar entries, and for the free slots
// returned by FreeSlots.
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether the interval contains no time at all.
func (iv Interval) IsEmpty() bool {
	return !iv.Start.Before(iv.End)
}

// ValidationError reports a request value that cannot describe a valid
// availability query.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// WindowForDay builds the working window for the calendar day containing
// day. Both hours are on that same local day, so an end hour at or before
// the start hour yields an empty window. Hour 24 means midnight at the end
// of the day.
func WindowForDay(day time.Time, startHour, endHour int) (Interval, error) {
	if startHour < 0 || startHour > 24 {
		return Interval{}, &ValidationError{Field: "workStartHour", Reason: "must be between 0 and 24"}
	}
	if endHour < 0 || endHour > 24 {
		return Interval{}, &ValidationError{Field: "workEndHour", Reason: "must be between 0 and 24"}
	}

	year, month, dayOfMonth := day.Date()
	loc := day.Location()

	return Interval{
		Start: time.Date(year, month, dayOfMonth, startHour, 0, 0, 0, loc),
		End:   time.Date(year, month, dayOfMonth, endHour, 0, 0, 0, loc),
	}, nil
}

// FreeSlots returns every slot-sized interval inside window that does not
// overlap a busy interval. Slots are aligned to the window start and to the
// ends of busy intervals; a remainder shorter than slot is never returned.
// Busy intervals may overlap each other and may extend beyond the window.
func FreeSlots(window Interval, busy []Interval, slot time.Duration) ([]Interval, error) {
	if slot <= 0 {
		return nil, &ValidationError{Field: "durationMinutes", Reason: "must be positive"}
	}

	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	slots := []Interval{}
	cursor := window.Start

	for _, b := range sorted {
		// Fill the gap between the cursor and the next busy interval.
		if b.Start.After(cursor) {
			for end := cursor.Add(slot); !end.After(b.Start); end = cursor.Add(slot) {
				slots = append(slots, Interval{Start: cursor, End: end})
				cursor = end
			}
		}
		// Overlapping busy intervals collapse here: the cursor only ever
		// moves forward.
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	for end := cursor.Add(slot); !end.After(window.End); end = cursor.Add(slot) {
		slots = append(slots, Interval{Start: cursor, End: end})
		cursor = end
	}

	return slots, nil
}
