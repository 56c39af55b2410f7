package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nixenos/czytaj/internal/config"
)

// Execute loads the configuration and runs the command line in os.Args.
func Execute() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return NewRootCmd(cfg).Execute()
}

func NewRootCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	var output string
	var metricsOut string
	var outFmt OutputFormat
	var app *App

	dbPath = cfg.DBPath
	output = string(OutputTable)

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	finish := func() error {
		if app == nil {
			return nil
		}
		var err error
		if metricsOut != "" {
			if werr := app.WriteMetrics(metricsOut); werr != nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}
		if cerr := app.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
		app = nil
		return err
	}

	cmd := &cobra.Command{
		Use:           "czytaj",
		Short:         "Local-first feed reader engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) {
				return nil
			}
			if app != nil {
				return nil
			}
			a, err := NewApp(cfg, dbPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app = a
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	cmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "SQLite database path")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json")
	cmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics of the run to this file")

	cmd.AddCommand(newAddCmd(getApp, getOutput))
	cmd.AddCommand(newRefreshCmd(getApp, getOutput))
	cmd.AddCommand(newRemoveCmd(getApp, getOutput))
	cmd.AddCommand(newGetCmd(getApp, getOutput))
	cmd.AddCommand(newCheckCmd(getApp, getOutput))
	cmd.AddCommand(newMarkCmd(getApp, getOutput))
	cmd.AddCommand(newUpdateCmd(getApp, getOutput))

	closeAfterRun(cmd, finish)
	return cmd
}

// closeAfterRun makes every runnable subcommand release the app when it
// returns, whether or not it failed.
func closeAfterRun(cmd *cobra.Command, finish func() error) {
	for _, c := range cmd.Commands() {
		closeAfterRun(c, finish)
		if c.RunE == nil {
			continue
		}
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if ferr := finish(); err == nil {
				err = ferr
			}
			return err
		}
	}
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("%w: invalid output format %q (expected table|json)", errUsage, raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}
