// Package gcal provides the Google Calendar gateway for the booking
// service.
//
// The client authenticates with a service account and rebuilds the API
// service on every call, so a rotated key file is picked up without a
// restart. Event times returned by the API are projected into the
// service's local time zone before they reach the availability
// calculator; all-day events cover their local day from midnight to
// midnight.
//
// Example usage:
//
//	client, err := gcal.NewClient(gcal.Config{
//	    Tokens:   gcal.NewFileTokenProvider("service-account.json"),
//	    Location: loc,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	busy, err := client.BusyIntervals(ctx, "primary", window)
package gcal
