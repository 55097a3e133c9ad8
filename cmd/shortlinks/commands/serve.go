package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
)

func serveCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Routes:
  POST /api/links    create a link (X-Principal header names the owner)
  GET  /api/links    list the caller's links
  GET  /api/logs     the caller's recent activity
  POST /api/events   record Login, Register or Logout
  GET  /s/{slug}     redirect to the destination
  GET  /x/health     health check`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				return a.Start(ctx)
			})
		},
	}
}
