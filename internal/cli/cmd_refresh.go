package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRefreshCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [url]",
		Short: "Refresh one feed, or every feed when no URL is given",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				data, err := app.engine.RefreshFeed(ctx, args[0])
				if err != nil {
					return fmt.Errorf("refresh feed: %w", err)
				}
				if getOutput() == OutputJSON {
					return writeJSON(out, newFeedDataResponse(strings.TrimSpace(args[0]), data))
				}
				fmt.Fprintf(out, "Refreshed feed: %s (%d articles)\n", data.Title, len(data.Articles))
				writeArticlesTable(out, data.Articles)
				return nil
			}

			report, err := app.engine.RefreshAll(ctx)
			if err != nil {
				return fmt.Errorf("refresh feeds: %w", err)
			}
			if getOutput() == OutputJSON {
				return writeJSON(out, report)
			}
			writeRefreshReportTable(out, report)

			errCount := 0
			for _, r := range report.Results {
				if r.Error != "" {
					errCount++
				}
			}
			if errCount > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Refresh completed with %d error(s).\n", errCount)
			}
			return nil
		},
	}
}
