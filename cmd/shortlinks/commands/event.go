package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

func eventCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event <Login|Register|Logout>",
		Short: "Record an authentication event",
		Long: `Record an authentication event in a user's activity log.

Examples:
  shortlinks event Login --user alice
  shortlinks event Logout --user alice --details "session timeout"`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			if strings.TrimSpace(user) == "" {
				return fmt.Errorf("--user is required")
			}
			details, _ := cmd.Flags().GetString("details")

			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				err := a.Service.RecordEvent(ctx, strings.TrimSpace(user), shortener.Action(args[0]), details)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s.\n", args[0], strings.TrimSpace(user))
				return nil
			})
		},
	}

	cmd.Flags().String("user", "", "User the event belongs to (required)")
	cmd.Flags().String("details", "", "Free-form details")

	return cmd
}
