package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get feeds, articles, viewed history and settings",
	}

	cmd.AddCommand(newGetFeedsCmd(getApp, getOutput))
	cmd.AddCommand(newGetFeedCmd(getApp, getOutput))
	cmd.AddCommand(newGetArticlesCmd(getApp, getOutput))
	cmd.AddCommand(newGetViewedCmd(getApp, getOutput))
	cmd.AddCommand(newGetSettingsCmd(getApp, getOutput))
	return cmd
}

func newGetFeedsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "feeds",
		Short: "List followed feeds",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			feeds, err := app.engine.ListFeeds(cmd.Context())
			if err != nil {
				return fmt.Errorf("list feeds: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				if feeds == nil {
					feeds = []Feed{}
				}
				return writeJSON(out, feeds)
			}
			writeFeedsTable(out, feeds)
			return nil
		},
	}
}

func newGetFeedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <url>",
		Short: "Show one feed and its refresh state",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			feed, err := app.engine.GetFeed(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get feed: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, feed)
			}
			writeFeedDetail(out, feed)
			return nil
		},
	}
}

func newGetArticlesCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "articles <url>",
		Short: "List the cached articles of a feed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			articles, err := app.engine.ListArticles(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("list articles: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				if articles == nil {
					articles = []Article{}
				}
				return writeJSON(out, articles)
			}
			writeArticlesTable(out, articles)
			return nil
		},
	}
}

func newGetViewedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "viewed",
		Short: "List viewed articles, most recent first",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			viewed, err := app.engine.ListViewed(cmd.Context())
			if err != nil {
				return fmt.Errorf("list viewed: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				if viewed == nil {
					viewed = []ViewedArticle{}
				}
				return writeJSON(out, viewed)
			}
			writeViewedTable(out, viewed)
			return nil
		},
	}
}

func newGetSettingsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show display settings",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			settings, err := app.engine.GetSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("get settings: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, settings)
			}
			writeSettingsTable(out, settings)
			return nil
		},
	}
}
