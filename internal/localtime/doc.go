// Package localtime normalizes the timestamp strings accepted by the booking
// API into instants carried in a single configured local zone.
//
// Two parsers exist on purpose and they are not interchangeable:
//
//   - ToLocal converts: a string carrying an offset (or a Z marker) denotes a
//     real instant, which is re-projected into the local zone. A string
//     without an offset is read as local wall clock.
//   - ParseLocal truncates: any offset suffix is cut off and the remaining
//     wall-clock fields are stamped with the local zone. "16:30:00Z" and
//     "16:30:00-08:00" therefore both come out as 16:30 local.
//
// ParseLocal is used for booking requests and deliberately reproduces the
// tolerant truncation behavior clients already rely on. Treating it as a bug
// and "fixing" it to convert would silently shift every booking sent with a
// UTC suffix. See the ParseLocal doc comment before changing anything here.
package localtime
