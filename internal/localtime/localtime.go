package localtime

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for the wall-clock shapes the API accepts.
const (
	layoutDateTime = "2006-01-02T15:04:05"
	layoutDate     = "2006-01-02"
)

// ParseError indicates a timestamp string that could not be interpreted.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadZone resolves a zone name (e.g. "America/Los_Angeles") into a Location.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", name, err)
	}
	return loc, nil
}

// ToLocal normalizes a timestamp string into the given zone.
//
// A string with an offset or Z marker denotes an absolute instant and is
// re-projected into loc. A bare wall-clock string (no offset) is interpreted
// as already being local. Fractional seconds are accepted in both forms.
func ToLocal(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(layoutDateTime, s, loc)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}

// ParseLocal parses a booking timestamp, ignoring any zone suffix.
//
// A single trailing "Z" is stripped, anything past the first 19 characters
// (the YYYY-MM-DDTHH:MM:SS prefix) is discarded, and the remaining wall-clock
// fields are stamped with loc. An offset is never converted; "T16:30:00Z" and
// "T16:30:00-08:00" both yield 16:30 local. Inputs shorter than the full
// seconds-precision shape fail with a ParseError.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSuffix(s, "Z")
	if len(trimmed) > len(layoutDateTime) {
		trimmed = trimmed[:len(layoutDateTime)]
	}
	t, err := time.ParseInLocation(layoutDateTime, trimmed, loc)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}

// ParseDate parses the date field of an availability query. It accepts either
// a bare date ("2025-11-15"), yielding local midnight, or a full timestamp,
// normalized via ToLocal.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if strings.Contains(s, "T") {
		return ToLocal(s, loc)
	}
	t, err := time.ParseInLocation(layoutDate, s, loc)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}
