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

type logRow struct {
	Seq     int64            `json:"seq"`
	Time    string           `json:"time"`
	User    string           `json:"user"`
	Action  shortener.Action `json:"action"`
	Details string           `json:"details"`
}

func logsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show a user's recent activity",
		Long: `Show a user's recent activity, newest first.

Examples:
  shortlinks logs --user alice
  shortlinks logs --user alice --limit 50 -o json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				return runLogs(ctx, cmd, a.Service)
			})
		},
	}

	cmd.Flags().String("user", "", "User whose activity to show (required)")
	cmd.Flags().Int("limit", 0, "Number of entries (default from LINK_LOG_LIMIT)")
	addOutputFlag(cmd)

	return cmd
}

func runLogs(ctx context.Context, cmd *cobra.Command, svc shortener.Service) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("--user is required")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	entries, err := svc.RecentActivity(ctx, strings.TrimSpace(user), limit)
	if err != nil {
		return err
	}

	if output == "json" {
		rows := make([]logRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, logRow{
				Seq:     e.Seq,
				Time:    e.Time.UTC().Format(timeLayout),
				User:    e.User,
				Action:  e.Action,
				Details: e.Details,
			})
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No activity found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.Seq, 10),
			formatTime(e.Time),
			string(e.Action),
			e.Details,
		})
	}
	return writeTable(cmd.OutOrStdout(), []string{"SEQ", "TIME", "ACTION", "DETAILS"}, rows)
}
