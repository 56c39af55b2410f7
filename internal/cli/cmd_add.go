package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add resources",
	}
	cmd.AddCommand(newAddFeedCmd(getApp, getOutput))
	return cmd
}

func newAddFeedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <url>",
		Short: "Fetch a feed and start following it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}

			data, err := app.engine.AddFeed(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("add feed: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, newFeedDataResponse(strings.TrimSpace(args[0]), data))
			}
			fmt.Fprintf(out, "Added feed: %s (%d articles)\n", data.Title, len(data.Articles))
			writeArticlesTable(out, data.Articles)
			return nil
		},
	}
}
