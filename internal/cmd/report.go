package cmd

import (
	"fmt"
	"time"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/filelock"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/report"
	"github.com/spf13/cobra"
)

// newReportCommand creates the 'habits report' command
func newReportCommand(opts *globalOptions) *cobra.Command {
	var asHTML bool
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a streak report as Markdown or HTML",
		Long: `Render a table of every habit with its current streak, completion count
and last completion time, followed by the longest current streak.

Examples:
  habits report
  habits report --html --output report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			renderer := report.NewRenderer()
			habits := s.tracker.Habits()
			now := time.Now()

			var data []byte
			if asHTML {
				data, err = renderer.HTML(habits, now)
				if err != nil {
					return err
				}
			} else {
				data = []byte(renderer.Markdown(habits, now))
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := filelock.LockAndWrite(output, data); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			s.log.LogInfo(fmt.Sprintf("Report written to %s", output))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVar(&output, "output", "", "Output file path (stdout if not specified)")

	return cmd
}
