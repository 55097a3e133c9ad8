package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/shortlinks/internal/app"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

type createdLink struct {
	Slug        string `json:"slug"`
	ShortURL    string `json:"short_url"`
	Destination string `json:"destination"`
	Owner       string `json:"owner"`
	CreatedAt   string `json:"created_at"`
	ExpiresAt   string `json:"expires_at"`
	TTLMinutes  int    `json:"ttl_minutes"`
}

func createCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <url>",
		Short: "Shorten a URL",
		Long: `Shorten a URL.

A random slug is generated unless --slug is given. Slugs may contain letters,
digits, '-' and '_'. A missing or invalid --ttl falls back to 30 minutes.

Examples:
  shortlinks create https://example.com --user alice
  shortlinks create https://example.com --user alice --slug docs --ttl 120
  shortlinks create https://example.com --user alice -o json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				return runCreate(ctx, cmd, a.Service, args[0])
			})
		},
	}

	cmd.Flags().String("user", "", "Owner of the link (required)")
	cmd.Flags().String("slug", "", "Custom slug")
	cmd.Flags().String("ttl", "", "Lifetime in minutes (default 30)")
	addOutputFlag(cmd)

	return cmd
}

func runCreate(ctx context.Context, cmd *cobra.Command, svc shortener.Service, destination string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("--user is required")
	}
	slug, _ := cmd.Flags().GetString("slug")
	ttl, _ := cmd.Flags().GetString("ttl")

	link, err := svc.CreateLink(ctx, shortener.CreateLinkRequest{
		Owner:         strings.TrimSpace(user),
		Destination:   destination,
		CandidateSlug: slug,
		TTLMinutesRaw: ttl,
	})
	if err != nil {
		return err
	}

	if output == "json" {
		return writeJSON(cmd.OutOrStdout(), createdLink{
			Slug:        link.Slug,
			ShortURL:    link.ShortURL,
			Destination: link.Destination,
			Owner:       link.Owner,
			CreatedAt:   link.CreatedAt.UTC().Format(timeLayout),
			ExpiresAt:   link.ValidUntil.UTC().Format(timeLayout),
			TTLMinutes:  link.TTLMinutes,
		})
	}

	return writeTable(cmd.OutOrStdout(),
		[]string{"SLUG", "SHORT URL", "DESTINATION", "EXPIRES", "TTL"},
		[][]string{{
			link.Slug,
			link.ShortURL,
			link.Destination,
			formatTime(link.ValidUntil),
			strconv.Itoa(link.TTLMinutes) + " min",
		}},
	)
}
