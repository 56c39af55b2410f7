package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nixenos/czytaj/internal/engine"
	"github.com/nixenos/czytaj/internal/model"
)

func newUpdateCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update resources",
	}
	cmd.AddCommand(newUpdateSettingsCmd(getApp, getOutput))
	return cmd
}

func newUpdateSettingsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var theme string
	var showImages bool
	var showExcerpts bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Update display settings",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("theme") && !flags.Changed("show-images") && !flags.Changed("show-excerpts") {
				return fmt.Errorf("%w: choose at least one of --theme, --show-images, --show-excerpts", errUsage)
			}

			// Unset flags keep their stored values; the engine always receives
			// a complete settings record.
			settings, err := app.engine.GetSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("get settings: %w", err)
			}
			if flags.Changed("theme") {
				t, err := model.ParseTheme(theme)
				if err != nil {
					return fmt.Errorf("%w: %v", engine.ErrInvalidValue, err)
				}
				settings.Theme = t
			}
			if flags.Changed("show-images") {
				settings.ShowImages = showImages
			}
			if flags.Changed("show-excerpts") {
				settings.ShowExcerpts = showExcerpts
			}

			if err := app.engine.UpdateSettings(cmd.Context(), settings); err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			out := cmd.OutOrStdout()
			if getOutput() == OutputJSON {
				return writeJSON(out, UpdateSettingsResponse{Settings: settings})
			}
			writeSettingsTable(out, settings)
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Theme: Light or Dark")
	cmd.Flags().BoolVar(&showImages, "show-images", true, "Show article images")
	cmd.Flags().BoolVar(&showExcerpts, "show-excerpts", true, "Show article excerpts")
	return cmd
}
