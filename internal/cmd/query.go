package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/analytics"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// newListCommand creates the 'habits list' command
func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all habits with their current streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			printHabits(cmd.OutOrStdout(), s.tracker.Habits())
			return nil
		},
	}
}

// newFilterCommand creates the 'habits filter' command
func newFilterCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <daily|weekly>",
		Short: "List the names of habits with the given periodicity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			p := models.Periodicity(args[0])
			printFiltered(cmd.OutOrStdout(), p, analytics.FilterByPeriodicity(s.tracker.Habits(), p))
			return nil
		},
	}
}

// newStreakCommand creates the 'habits streak' command
func newStreakCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak [name]",
		Short: "Show the longest current streak, or the streak of one habit",
		Long: `Without arguments, show the longest current streak across all habits.
With a habit name, show that habit's current streak (0 if it does not exist).

A current streak is the run of consecutive periods ending at the habit's most
recent completion.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			output := cmd.OutOrStdout()
			habits := s.tracker.Habits()
			if len(args) == 0 {
				fmt.Fprintf(output, "Longest streak overall: %d\n", analytics.MaxStreak(habits))
				return nil
			}
			fmt.Fprintf(output, "Streak for %s: %d\n", args[0], analytics.StreakFor(habits, args[0]))
			return nil
		},
	}
}

// printHabits writes one "<name> (<periodicity>) - Streak: <n>" line per habit
func printHabits(w io.Writer, habits []*models.Habit) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "\n--- Your Habits ---")

	if len(habits) == 0 {
		fmt.Fprintln(w, "No habits tracked.")
		return
	}
	for _, s := range analytics.Summarize(habits) {
		fmt.Fprintf(w, "%s (%s) - Streak: %s\n", s.Name, s.Periodicity, streakText(s.Streak))
	}
}

func printFiltered(w io.Writer, p models.Periodicity, names []string) {
	title := string(p)
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	color.New(color.Bold).Fprintf(w, "\n--- %s Habits ---\n", title)

	if len(names) == 0 {
		fmt.Fprintln(w, "No matching habits.")
		return
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

// streakText colors non-zero streaks green
func streakText(streak int) string {
	if streak == 0 {
		return "0"
	}
	return color.New(color.FgGreen).Sprint(streak)
}
