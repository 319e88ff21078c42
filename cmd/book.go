package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quietfall/slotbooker/internal/gcal"
	"github.com/quietfall/slotbooker/internal/localtime"
	"github.com/quietfall/slotbooker/internal/logging"
)

// bookedOutput mirrors the HTTP API's book response.
type bookedOutput struct {
	Status string      `json:"status"`
	Event  eventOutput `json:"event"`
}

type eventOutput struct {
	ID       string  `json:"id"`
	HTMLLink *string `json:"htmlLink"`
}

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an event and print the confirmation as JSON",
		Long: `Create an event in the configured calendar and print the confirmation
as JSON on stdout.

Start and end times are interpreted as wall clock times in the
configured time zone; any UTC offset or Z suffix on them is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.WithOperation(logging.Setup(cfg.Log.Debug, cfg.Log.Format), "book")

			loc, err := cfg.Calendar.Location()
			if err != nil {
				return err
			}

			startArg, _ := cmd.Flags().GetString("start")
			endArg, _ := cmd.Flags().GetString("end")
			summary, _ := cmd.Flags().GetString("summary")
			description, _ := cmd.Flags().GetString("description")

			start, err := localtime.ParseLocal(startArg, loc)
			if err != nil {
				return err
			}
			end, err := localtime.ParseLocal(endArg, loc)
			if err != nil {
				return err
			}

			client, err := newGatewayClient(cfg, loc)
			if err != nil {
				return err
			}

			logger.Debug("booking event",
				logging.Domain(cfg.Calendar.ID),
				slog.Time("start", start),
				slog.Time("end", end),
			)

			created, err := client.CreateEvent(context.Background(), cfg.Calendar.ID, gcal.BookingInput{
				Start:       start,
				End:         end,
				Summary:     summary,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			logger.Debug("event booked",
				logging.Status(logging.StatusSuccess),
				slog.String("event_id", created.ID),
			)

			out := bookedOutput{Status: "confirmed", Event: eventOutput{ID: created.ID}}
			if created.HTMLLink != "" {
				out.Event.HTMLLink = &created.HTMLLink
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().String("start", "", "Event start time, e.g. 2025-11-15T10:00:00 (required)")
	cmd.Flags().String("end", "", "Event end time (required)")
	cmd.Flags().String("summary", "", "Event title")
	cmd.Flags().String("description", "", "Event description")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
