package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
)

// NewNotifyCmd groups the notification commands
func NewNotifyCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send notifications through the configured channel",
	}
	cmd.AddCommand(newNotifyWelcomeCmd(deps))
	return cmd
}

func newNotifyWelcomeCmd(deps *Dependencies) *cobra.Command {
	var to, name string

	cmd := &cobra.Command{
		Use:   "welcome",
		Short: "Send the welcome email, useful for checking SMTP settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier, err := notify.New(deps.Config.SMTP, deps.logger())
			if err != nil {
				return fmt.Errorf("initializing notifier: %w", err)
			}

			msg := notify.Message{Kind: notify.KindWelcome, To: to, Name: name}
			if err := notifier.Send(cmd.Context(), msg); err != nil {
				return fmt.Errorf("sending welcome to %s: %w", to, err)
			}

			channel := "log"
			if deps.Config.SMTP.Host != "" {
				channel = deps.Config.SMTP.Host
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ welcome sent to %s via %s\n", to, channel)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	cmd.Flags().StringVar(&name, "name", "", "Recipient name")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
