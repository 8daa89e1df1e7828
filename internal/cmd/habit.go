package cmd

import (
	"fmt"
	"time"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/storage"
	"github.com/spf13/cobra"
)

// newAddCommand creates the 'habits add' command
func newAddCommand(opts *globalOptions) *cobra.Command {
	var periodicity string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new habit",
		Long: `Add a new daily or weekly habit. Names must be unique.

Examples:
  habits add "Read Book" --periodicity daily
  habits add "Call Family" -p weekly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0], periodicity)
		},
	}

	cmd.Flags().StringVarP(&periodicity, "periodicity", "p", "daily", "Periodicity (daily|weekly)")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *globalOptions, name, periodicity string) error {
	p, err := models.ParsePeriodicity(periodicity)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.tracker.Add(name, p); err != nil {
		return err
	}
	if err := s.save(commandContext(cmd)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' added.\n", name)
	return nil
}

// newDeleteCommand creates the 'habits delete' command
func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, opts, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, opts *globalOptions, name string) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	output := cmd.OutOrStdout()
	if _, ok := s.tracker.Get(name); !ok {
		fmt.Fprintln(output, "Habit not found.")
		return nil
	}

	s.tracker.Delete(name)
	if err := s.save(commandContext(cmd)); err != nil {
		return err
	}

	fmt.Fprintf(output, "Habit '%s' deleted.\n", name)
	return nil
}

// newCompleteCommand creates the 'habits complete' command
func newCompleteCommand(opts *globalOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "complete <name>",
		Short: "Mark a habit as completed",
		Long: `Record a completion for a habit, now or at an explicit time.

Examples:
  habits complete "Read Book"
  habits complete Exercise --at 2024-03-01T07:30:00+01:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd, opts, args[0], at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Completion time in RFC 3339 format (default now)")

	return cmd
}

func runComplete(cmd *cobra.Command, opts *globalOptions, name, at string) error {
	var when time.Time
	if at != "" {
		t, err := storage.ParseTime(at)
		if err != nil {
			return fmt.Errorf("invalid --at time %q: %w", at, err)
		}
		when = t
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	output := cmd.OutOrStdout()

	var completed bool
	if when.IsZero() {
		completed = s.tracker.Complete(name)
	} else if habit, ok := s.tracker.Get(name); ok {
		habit.CompleteAt(when)
		completed = true
	}

	if !completed {
		fmt.Fprintln(output, "Habit not found.")
		return nil
	}

	habit, _ := s.tracker.Get(name)
	s.log.LogCompletion(habit)

	if err := s.save(commandContext(cmd)); err != nil {
		return err
	}

	fmt.Fprintln(output, "Completed.")
	return nil
}
