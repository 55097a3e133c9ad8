// Package commands implements the shortlinks command line.
package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
)

// Opener returns a wired application and a function that releases it.
type Opener func(ctx context.Context, cmd *cobra.Command) (*app.App, func(), error)

// defaultOpener loads configuration from the environment. Logs go to stderr
// so table and JSON output on stdout stay clean.
func defaultOpener(ctx context.Context, cmd *cobra.Command) (*app.App, func(), error) {
	envFile, _ := cmd.Flags().GetString("env-file")

	a, err := app.New(ctx, app.WithLogOutput(cmd.ErrOrStderr()), app.WithEnvFile(envFile))
	if err != nil {
		return nil, nil, err
	}
	return a, func() { _ = a.Shutdown(context.Background()) }, nil
}

// NewRootCommand builds the command tree. A nil opener uses the environment.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = defaultOpener
	}

	cmd := &cobra.Command{
		Use:   "shortlinks",
		Short: "Create and resolve expiring short links",
		Long: `shortlinks maps short slugs to destination URLs for a limited time.

Every link expires after its TTL (30 minutes unless set). Creating and
following links is recorded in a per-user activity log.

Quick start:
  shortlinks serve                                   # Run the HTTP API
  shortlinks create https://example.com --user alice # Shorten a URL
  shortlinks resolve abc123                          # Look up a slug
  shortlinks links --user alice                      # List your links
  shortlinks logs --user alice                       # Show recent activity`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("env-file", ".env", "Path to a .env file (development and test only)")

	cmd.AddCommand(serveCommand(open))
	cmd.AddCommand(createCommand(open))
	cmd.AddCommand(resolveCommand(open))
	cmd.AddCommand(linksCommand(open))
	cmd.AddCommand(logsCommand(open))
	cmd.AddCommand(eventCommand(open))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp opens the application, runs fn and releases it.
func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, release, err := open(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, a)
}
