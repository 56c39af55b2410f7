package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check article state",
	}
	cmd.AddCommand(newCheckViewedCmd(getApp, getOutput))
	return cmd
}

func newCheckViewedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "viewed <link>",
		Short: "Report whether an article link has been viewed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			link := strings.TrimSpace(args[0])
			viewed, err := app.engine.IsViewed(cmd.Context(), link)
			if err != nil {
				return fmt.Errorf("check viewed: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, ViewedStatusResponse{Link: link, Viewed: viewed})
			}
			if viewed {
				fmt.Fprintln(out, "viewed")
			} else {
				fmt.Fprintln(out, "not viewed")
			}
			return nil
		},
	}
}

func newMarkCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark article state",
	}
	cmd.AddCommand(newMarkViewedCmd(getApp, getOutput))
	return cmd
}

func newMarkViewedCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "viewed <link>",
		Short: "Record an article link as viewed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			link := strings.TrimSpace(args[0])
			if err := app.engine.MarkViewed(cmd.Context(), link, strings.TrimSpace(title)); err != nil {
				return fmt.Errorf("mark viewed: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, ViewedStatusResponse{Link: link, Viewed: true})
			}
			fmt.Fprintf(out, "Marked viewed: %s\n", link)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Article title to keep with the record")
	return cmd
}
