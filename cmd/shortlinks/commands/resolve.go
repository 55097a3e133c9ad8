package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
)

func resolveCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Print the destination of a slug",
		Long: `Print the destination of a slug and record the redirect.

Fails when the slug does not exist or has expired.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				destination, err := a.Service.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), destination)
				return nil
			})
		},
	}
}
