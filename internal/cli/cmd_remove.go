package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRemoveCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove resources",
	}
	cmd.AddCommand(newRemoveFeedCmd(getApp, getOutput))
	return cmd
}

func newRemoveFeedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <url>",
		Short: "Stop following a feed and drop its cached articles",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}

			url := strings.TrimSpace(args[0])
			if err := app.engine.RemoveFeed(cmd.Context(), url); err != nil {
				return fmt.Errorf("remove feed: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, RemoveFeedResponse{RemovedURL: url})
			}
			fmt.Fprintf(out, "Removed feed %s\n", url)
			return nil
		},
	}
}
