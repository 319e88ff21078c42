package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietfall/slotbooker/internal/availability"
	"github.com/quietfall/slotbooker/internal/config"
	"github.com/quietfall/slotbooker/internal/gcal"
	"github.com/quietfall/slotbooker/internal/localtime"
	"github.com/quietfall/slotbooker/internal/logging"
)

// slotOutput is one free slot as printed by the slots command. The field
// names match the HTTP API's check response.
type slotOutput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type slotsOutput struct {
	Slots []slotOutput `json:"slots"`
}

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List free slots for a day as JSON",
		Long: `Query the configured calendar for busy intervals on one day and print
the remaining free slots as JSON on stdout.

The day accepts a bare date like 2025-11-15, interpreted in the
configured time zone, or a full timestamp whose day is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.WithOperation(logging.Setup(cfg.Log.Debug, cfg.Log.Format), "slots")

			loc, err := cfg.Calendar.Location()
			if err != nil {
				return err
			}

			date, _ := cmd.Flags().GetString("date")
			day := time.Now().In(loc)
			if date != "" {
				if day, err = localtime.ParseDate(date, loc); err != nil {
					return err
				}
			}

			window, err := availability.WindowForDay(day, cfg.Defaults.WorkStartHour, cfg.Defaults.WorkEndHour)
			if err != nil {
				return err
			}

			client, err := newGatewayClient(cfg, loc)
			if err != nil {
				return err
			}

			logger.Debug("listing busy intervals",
				logging.Domain(cfg.Calendar.ID),
				slog.Time("window_start", window.Start),
				slog.Time("window_end", window.End),
			)

			busy, err := client.BusyIntervals(context.Background(), cfg.Calendar.ID, window)
			if err != nil {
				return fmt.Errorf("failed to list busy intervals: %w", err)
			}

			slots, err := availability.FreeSlots(window, busy, time.Duration(cfg.Defaults.DurationMinutes)*time.Minute)
			if err != nil {
				return err
			}

			logger.Debug("availability checked",
				logging.Status(logging.StatusSuccess),
				slog.Int("slots_found", len(slots)),
			)
			return printJSON(cmd.OutOrStdout(), slotsOutput{Slots: formatSlots(slots)})
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().String("date", "", "Day to check, e.g. 2025-11-15. Defaults to today.")
	cmd.Flags().Int("duration", config.DefaultDurationMinutes, "Slot length in minutes. Can also use SLOTBOOKER_DEFAULTS_DURATION_MINUTES env var.")
	cmd.Flags().Int("work-start", config.DefaultWorkStartHour, "First bookable hour of the day. Can also use SLOTBOOKER_DEFAULTS_WORK_START_HOUR env var.")
	cmd.Flags().Int("work-end", config.DefaultWorkEndHour, "Hour the bookable day ends. Can also use SLOTBOOKER_DEFAULTS_WORK_END_HOUR env var.")

	return cmd
}

// formatSlots renders intervals in RFC 3339 with the local offset kept.
func formatSlots(slots []availability.Interval) []slotOutput {
	out := make([]slotOutput, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotOutput{
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
		})
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newGatewayClient builds the Calendar client the one-shot commands use.
func newGatewayClient(cfg *config.Config, loc *time.Location) (*gcal.Client, error) {
	client, err := gcal.NewClient(gcal.Config{
		Tokens:   gcal.NewFileTokenProvider(cfg.Calendar.CredentialsFile),
		Location: loc,
		Endpoint: cfg.Calendar.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return client, nil
}
