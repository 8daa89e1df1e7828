package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	dbPath     string
	configPath string
	logLevel   string
}

// NewRootCommand creates and returns the root cobra command for habits
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Track recurring habits and their streaks",
		Long: `Habits tracks daily and weekly habits, records each completion and
reports the current streak of consecutive periods for every habit.

State is kept in a local SQLite file (habits.db by default, or $HABITS_DB).
Run "habits shell" for the interactive menu.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the habit store (default habits.db)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ./habits.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newCompleteCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newFilterCommand(opts))
	cmd.AddCommand(newStreakCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newReportCommand(opts))
	cmd.AddCommand(newShellCommand(opts))

	return cmd
}
