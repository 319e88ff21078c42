// Package cmd implements the command-line interface for slotbooker.
//
// This package provides the following commands:
//   - serve: Start the availability and booking HTTP API
//   - slots: List free slots for a day and print them as JSON
//   - book: Create a calendar event and print the confirmation
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
