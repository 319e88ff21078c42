// Package availability computes bookable time slots for a working day.
//
// Callers describe the day as a window (for example 09:00 to 17:00 local
// time) and supply the busy intervals already on the calendar. FreeSlots
// walks the window in fixed-size steps and returns every slot that does
// not overlap a busy interval. Intervals are half-open, so a slot may end
// exactly where a busy interval begins.
package availability
