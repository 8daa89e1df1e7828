package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/storage"
)

// runHabits executes one CLI invocation against dbPath and returns stdout.
func runHabits(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HABITS_DB", "")

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	cmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--db", dbPath))

	err := cmd.Execute()
	return stdout.String(), err
}

// loadStored reads the store directly, bypassing the CLI.
func loadStored(t *testing.T, dbPath string) []*models.Habit {
	t.Helper()
	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	habits, err := store.Load(context.Background())
	require.NoError(t, err)
	return habits
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "habits.db")
}

func TestAddCommand(t *testing.T) {
	dbPath := tempDB(t)

	out, err := runHabits(t, dbPath, "", "add", "Read Book", "--periodicity", "daily")
	require.NoError(t, err)
	assert.Equal(t, "Habit 'Read Book' added.\n", out)

	out, err = runHabits(t, dbPath, "", "add", "Call Family", "-p", "Weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Call Family")

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read Book", habits[0].Name)
	assert.Equal(t, models.Daily, habits[0].Periodicity)
	assert.Equal(t, models.Weekly, habits[1].Periodicity)
	assert.Empty(t, habits[0].Completions)
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "invalid periodicity",
			args:    []string{"add", "Swim", "-p", "monthly"},
			wantErr: models.ErrInvalidPeriodicity,
		},
		{
			name:    "empty name",
			args:    []string{"add", "  ", "-p", "daily"},
			wantErr: models.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tempDB(t)
			_, err := runHabits(t, dbPath, "", tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddCommand_DuplicateRejected(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "add", "Exercise")
	require.NoError(t, err)

	_, err = runHabits(t, dbPath, "", "add", "Exercise", "-p", "weekly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1)
	assert.Equal(t, models.Daily, habits[0].Periodicity)
}

func TestDeleteCommand(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "add", "Meditate", "-p", "weekly")
	require.NoError(t, err)
	_, err = runHabits(t, dbPath, "", "add", "Exercise")
	require.NoError(t, err)

	out, err := runHabits(t, dbPath, "", "delete", "Meditate")
	require.NoError(t, err)
	assert.Equal(t, "Habit 'Meditate' deleted.\n", out)

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1, "deletion reaches the store")
	assert.Equal(t, "Exercise", habits[0].Name)
}

func TestDeleteCommand_NotFound(t *testing.T) {
	dbPath := tempDB(t)

	out, err := runHabits(t, dbPath, "", "delete", "Ghost")
	require.NoError(t, err)
	assert.Equal(t, "Habit not found.\n", out)
}

func TestCompleteCommand(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "add", "Exercise")
	require.NoError(t, err)

	out, err := runHabits(t, dbPath, "", "complete", "Exercise", "--at", "2024-03-01T07:30:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, "Completed.\n", out)

	out, err = runHabits(t, dbPath, "", "complete", "Exercise", "--at", "2024-03-02T08:00:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, "Completed.\n", out)

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1)
	require.Len(t, habits[0].Completions, 2)
	assert.Equal(t, 2, habits[0].Streak())
}

func TestCompleteCommand_NotFoundIsNotAnError(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "add", "Exercise")
	require.NoError(t, err)

	out, err := runHabits(t, dbPath, "", "complete", "NonExistent")
	require.NoError(t, err)
	assert.Equal(t, "Habit not found.\n", out)

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1)
	assert.Empty(t, habits[0].Completions)
}

func TestCompleteCommand_InvalidTime(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "complete", "Exercise", "--at", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --at time")
}

func TestCommands_StoreLocked(t *testing.T) {
	dbPath := tempDB(t)

	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = runHabits(t, dbPath, "", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStoreLocked)
}

func TestCommands_HabitsDBEnv(t *testing.T) {
	dbPath := tempDB(t)
	t.Setenv("HABITS_DB", dbPath)

	cmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"add", "Drink Water"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(dbPath)
	require.NoError(t, err, "store created at $HABITS_DB")

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1)
	assert.Equal(t, "Drink Water", habits[0].Name)
}

func TestCommands_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	configPath := filepath.Join(dir, "habits.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("db_path: "+dbPath+"\nlog_level: error\n"), 0644))
	t.Setenv("HABITS_DB", "")

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"add", "Stretch", "--config", configPath})
	require.NoError(t, cmd.Execute())

	habits := loadStored(t, dbPath)
	require.Len(t, habits, 1)
	assert.Equal(t, "Stretch", habits[0].Name)
}

func TestCommands_InvalidLogLevel(t *testing.T) {
	dbPath := tempDB(t)

	_, err := runHabits(t, dbPath, "", "list", "--log-level", "verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
