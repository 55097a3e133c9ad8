package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

type linkRow struct {
	Slug        string           `json:"slug"`
	ShortURL    string           `json:"short_url"`
	Destination string           `json:"destination"`
	CreatedAt   string           `json:"created_at"`
	ExpiresAt   string           `json:"expires_at"`
	Status      shortener.Status `json:"status"`
}

func linksCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List a user's links",
		Long: `List a user's links in creation order with their current status.

Examples:
  shortlinks links --user alice
  shortlinks links --user alice -o json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				return runLinks(ctx, cmd, a.Service)
			})
		},
	}

	cmd.Flags().String("user", "", "Owner whose links to list (required)")
	addOutputFlag(cmd)

	return cmd
}

func runLinks(ctx context.Context, cmd *cobra.Command, svc shortener.Service) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("--user is required")
	}

	views, err := svc.ListLinks(ctx, strings.TrimSpace(user))
	if err != nil {
		return err
	}

	if output == "json" {
		rows := make([]linkRow, 0, len(views))
		for _, v := range views {
			rows = append(rows, linkRow{
				Slug:        v.Slug,
				ShortURL:    v.ShortURL,
				Destination: v.Destination,
				CreatedAt:   v.CreatedAt.UTC().Format(timeLayout),
				ExpiresAt:   v.ValidUntil.UTC().Format(timeLayout),
				Status:      v.Status,
			})
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	if len(views) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No links found.")
		return nil
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.ShortURL,
			v.Destination,
			formatTime(v.ValidUntil),
			strings.ToUpper(string(v.Status)),
		})
	}
	return writeTable(cmd.OutOrStdout(), []string{"SHORT URL", "DESTINATION", "EXPIRES", "STATUS"}, rows)
}
