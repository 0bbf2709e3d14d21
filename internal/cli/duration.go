package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/usecase/autojoin"
)

const durationExamples = `  meetmindctl duration --date 2026-10-16 --time 14:00
  meetmindctl duration --date 2026-10-16 --time 14:00 --at 2026-10-16T14:20:00Z
  meetmindctl duration --date 2026-10-16 --time 14:00 --override 900`

// NewDurationCmd previews how long the bot would record a meeting and what
// the scheduler would do with it at a given instant
func NewDurationCmd(deps *Dependencies) *cobra.Command {
	var (
		date     string
		clock    string
		expected int
		override int
		at       string
	)

	cmd := &cobra.Command{
		Use:     "duration",
		Short:   "Preview the recording duration and scheduler decision for a meeting",
		Example: durationExamples,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := deps.Config.Location()

			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				now = parsed
			}

			m := entities.NewMeeting(uuid.Nil, "preview", date, clock)
			m.ExpectedDurationMinutes = expected
			m.SendReminder = true
			m.AutoJoin = true
			link := "preview"
			m.MeetingLink = &link

			var ov *int
			if override < 0 {
				return fmt.Errorf("--override must be a positive number of seconds")
			}
			if override > 0 {
				ov = &override
			}

			decision, err := autojoin.Evaluate(m, now, loc)
			if err != nil {
				return err
			}
			seconds := autojoin.ResolveDuration(m, now, loc, ov)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "timezone:       %s\n", loc)
			fmt.Fprintf(out, "minutes until:  %d\n", decision.MinutesUntil)
			fmt.Fprintf(out, "decision:       %s\n", decision.Action)
			fmt.Fprintf(out, "duration:       %d seconds (%s)\n", seconds, autojoin.FormatDuration(seconds))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Meeting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "Meeting start time (HH:MM)")
	cmd.Flags().IntVar(&expected, "expected", 0, "Expected duration in minutes (0 uses the elapsed-time heuristic)")
	cmd.Flags().IntVar(&override, "override", 0, "Explicit duration in seconds, clamped to the recording bounds (0 for none)")
	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this instant (RFC3339) instead of now")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}
