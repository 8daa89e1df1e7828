package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/analytics"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MenuReader defines interface for reading user input (for testing)
type MenuReader interface {
	ReadString(delim byte) (string, error)
}

// DefaultMenuReader wraps bufio.Reader
type DefaultMenuReader struct {
	reader *bufio.Reader
}

func NewDefaultMenuReader(r io.Reader) *DefaultMenuReader {
	return &DefaultMenuReader{reader: bufio.NewReader(r)}
}

func (d *DefaultMenuReader) ReadString(delim byte) (string, error) {
	return d.reader.ReadString(delim)
}

// errInputClosed ends the loop the same way "Save & Exit" does
var errInputClosed = errors.New("input closed")

// newShellCommand creates the 'habits shell' command
func newShellCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive habit menu",
		Long: `Run the interactive menu. Changes are kept in memory and written to the
store on "Save & Exit" or when input ends (Ctrl-D).

An empty store is seeded with a few default habits unless seed_defaults is
false in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			sh := &shell{
				session: s,
				reader:  NewDefaultMenuReader(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
			}
			return sh.run(cmd)
		},
	}
}

type shell struct {
	*session
	reader MenuReader
	out    io.Writer
}

func (sh *shell) run(cmd *cobra.Command) error {
	if sh.tracker.Len() == 0 && sh.cfg.SeedDefaults {
		fmt.Fprintln(sh.out, "No habits found. Adding predefined habits...")
		n := sh.tracker.SeedDefaults()
		sh.log.LogDebug(fmt.Sprintf("Seeded %d default habits", n))
	}

	for {
		sh.printMenu()
		choice, err := sh.prompt("Choose an option: ")
		if err != nil {
			return sh.exit(cmd, err)
		}

		switch choice {
		case "1":
			err = sh.addHabit()
		case "2":
			err = sh.deleteHabit()
		case "3":
			err = sh.completeHabit()
		case "4":
			printHabits(sh.out, sh.tracker.Habits())
		case "5":
			err = sh.filterHabits()
		case "6":
			fmt.Fprintf(sh.out, "Longest streak overall: %d\n", analytics.MaxStreak(sh.tracker.Habits()))
		case "7":
			err = sh.streakForHabit()
		case "8":
			return sh.exit(cmd, nil)
		default:
			color.New(color.FgRed).Fprintln(sh.out, "Invalid option.")
		}

		if err != nil {
			return sh.exit(cmd, err)
		}
	}
}

// exit saves the collection when the loop ends by choice or by end of input.
// Read errors other than end of input are returned without saving.
func (sh *shell) exit(cmd *cobra.Command, cause error) error {
	if cause != nil && !errors.Is(cause, errInputClosed) {
		return cause
	}
	if err := sh.save(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Data saved. Exiting...")
	return nil
}

func (sh *shell) printMenu() {
	bold := color.New(color.Bold)

	bold.Fprintln(sh.out, "\nHabit Tracker")
	fmt.Fprintln(sh.out, "1. Add Habit")
	fmt.Fprintln(sh.out, "2. Delete Habit")
	fmt.Fprintln(sh.out, "3. Complete Habit")
	fmt.Fprintln(sh.out, "4. View All Habits")
	fmt.Fprintln(sh.out, "5. Filter Habits")
	fmt.Fprintln(sh.out, "6. Longest Streak")
	fmt.Fprintln(sh.out, "7. Longest Streak for a Habit")
	fmt.Fprintln(sh.out, "8. Save & Exit")
}

// prompt prints label and returns the trimmed reply. A final line without a
// newline is still returned; errInputClosed is reported on the next call.
func (sh *shell) prompt(label string) (string, error) {
	color.New(color.FgCyan).Fprint(sh.out, label)

	input, err := sh.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if input == "" {
				fmt.Fprintln(sh.out)
				return "", errInputClosed
			}
			return strings.TrimSpace(input), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

func (sh *shell) addHabit() error {
	name, err := sh.prompt("Habit name: ")
	if err != nil {
		return err
	}
	period, err := sh.prompt("Periodicity (daily/weekly): ")
	if err != nil {
		return err
	}

	p, err := models.ParsePeriodicity(period)
	if err != nil {
		sh.printError(err)
		return nil
	}
	if _, err := sh.tracker.Add(name, p); err != nil {
		sh.printError(err)
		return nil
	}
	fmt.Fprintf(sh.out, "Habit '%s' added.\n", name)
	return nil
}

func (sh *shell) deleteHabit() error {
	name, err := sh.prompt("Habit to delete: ")
	if err != nil {
		return err
	}

	if _, ok := sh.tracker.Get(name); !ok {
		fmt.Fprintln(sh.out, "Habit not found.")
		return nil
	}
	sh.tracker.Delete(name)
	fmt.Fprintf(sh.out, "Habit '%s' deleted.\n", name)
	return nil
}

func (sh *shell) completeHabit() error {
	name, err := sh.prompt("Habit to complete: ")
	if err != nil {
		return err
	}

	if !sh.tracker.Complete(name) {
		fmt.Fprintln(sh.out, "Habit not found.")
		return nil
	}
	habit, _ := sh.tracker.Get(name)
	sh.log.LogCompletion(habit)
	fmt.Fprintln(sh.out, "Completed.")
	return nil
}

func (sh *shell) filterHabits() error {
	period, err := sh.prompt("Filter by (daily/weekly): ")
	if err != nil {
		return err
	}

	p := models.Periodicity(strings.ToLower(period))
	printFiltered(sh.out, p, analytics.FilterByPeriodicity(sh.tracker.Habits(), p))
	return nil
}

func (sh *shell) streakForHabit() error {
	name, err := sh.prompt("Enter habit name: ")
	if err != nil {
		return err
	}

	fmt.Fprintf(sh.out, "Streak for %s: %d\n", name, analytics.StreakFor(sh.tracker.Habits(), name))
	return nil
}

func (sh *shell) printError(err error) {
	color.New(color.FgRed).Fprintf(sh.out, "Error: %v\n", err)
}
