package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
)

// ErrBotNotReady is returned by bot check when the installation is incomplete
var ErrBotNotReady = errors.New("bot is not ready")

// NewBotCmd groups the recording bot commands
func NewBotCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Inspect the recording bot installation",
	}
	cmd.AddCommand(newBotCheckCmd(deps))
	return cmd
}

func newBotCheckCmd(deps *Dependencies) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the bot folder, interpreter and required files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			st := bot.NewProbe(deps.Config.Bot).Check(ctx)
			if !st.Ready {
				fmt.Fprintf(out, "✗ %s\n", st.Message)
				return fmt.Errorf("%w: %s", ErrBotNotReady, st.Message)
			}
			fmt.Fprintf(out, "✓ %s (%s)\n", st.Message, deps.Config.Bot.Dir)

			version, err := bot.NewRecorder(deps.Config.Bot, deps.logger()).Version(ctx)
			if err != nil {
				fmt.Fprintf(out, "⚠ python version unavailable: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "✓ %s\n", version)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for the check")
	return cmd
}
