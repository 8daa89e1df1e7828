package tracker

import (
	"testing"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Add(t *testing.T) {
	tr := New()

	h, err := tr.Add("Write Code", models.Daily)
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "Write Code", tr.Habits()[0].Name)
	assert.Empty(t, h.Completions)
	assert.False(t, h.CreatedAt.IsZero())
}

func TestTracker_Add_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		habit       string
		periodicity models.Periodicity
		wantErr     error
	}{
		{name: "duplicate name", habit: "Exercise", periodicity: models.Weekly, wantErr: ErrDuplicateHabit},
		{name: "empty name", habit: "", periodicity: models.Daily, wantErr: models.ErrEmptyName},
		{name: "unknown periodicity", habit: "Swim", periodicity: "monthly", wantErr: models.ErrInvalidPeriodicity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			_, err := tr.Add("Exercise", models.Daily)
			require.NoError(t, err)

			_, err = tr.Add(tt.habit, tt.periodicity)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, tr.Len())
		})
	}
}

func TestTracker_Delete(t *testing.T) {
	tr := New()
	_, err := tr.Add("Write Code", models.Daily)
	require.NoError(t, err)
	_, err = tr.Add("Call Family", models.Weekly)
	require.NoError(t, err)

	tr.Delete("Write Code")

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "Call Family", tr.Habits()[0].Name)
	assert.Equal(t, []string{"Write Code"}, tr.Deleted())
}

func TestTracker_Delete_RemovesAllMatches(t *testing.T) {
	// Loaded collections are not checked for duplicates
	tr := New(
		models.NewHabit("Dup", models.Daily),
		models.NewHabit("Keep", models.Daily),
		models.NewHabit("Dup", models.Weekly),
	)

	tr.Delete("Dup")

	require.Equal(t, 1, tr.Len())
	assert.Equal(t, "Keep", tr.Habits()[0].Name)
}

func TestTracker_Delete_Absent(t *testing.T) {
	tr := New(models.NewHabit("Keep", models.Daily))

	tr.Delete("Missing")

	assert.Equal(t, 1, tr.Len())
	assert.Empty(t, tr.Deleted())
}

func TestTracker_Complete(t *testing.T) {
	tr := New()
	_, err := tr.Add("Read Book", models.Daily)
	require.NoError(t, err)

	assert.True(t, tr.Complete("Read Book"))

	h, ok := tr.Get("Read Book")
	require.True(t, ok)
	assert.Len(t, h.Completions, 1)
}

func TestTracker_Complete_NonExistent(t *testing.T) {
	tr := New()
	_, err := tr.Add("Read Book", models.Daily)
	require.NoError(t, err)

	assert.False(t, tr.Complete("NonExistent"))

	require.Equal(t, 1, tr.Len())
	assert.Empty(t, tr.Habits()[0].Completions)
}

func TestTracker_Complete_FirstMatchOnly(t *testing.T) {
	first := models.NewHabit("Dup", models.Daily)
	second := models.NewHabit("Dup", models.Daily)
	tr := New(first, second)

	assert.True(t, tr.Complete("Dup"))
	assert.Len(t, first.Completions, 1)
	assert.Empty(t, second.Completions)
}

func TestTracker_Get(t *testing.T) {
	tr := New(models.NewHabit("Meditate", models.Weekly))

	h, ok := tr.Get("Meditate")
	require.True(t, ok)
	assert.Equal(t, models.Weekly, h.Periodicity)

	h, ok = tr.Get("Nope")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestTracker_Habits_ReturnsCopy(t *testing.T) {
	tr := New(models.NewHabit("A", models.Daily), models.NewHabit("B", models.Weekly))

	snapshot := tr.Habits()
	snapshot[0] = nil

	assert.NotNil(t, tr.Habits()[0])
}

func TestTracker_SeedDefaults(t *testing.T) {
	tr := New()
	assert.Equal(t, 5, tr.SeedDefaults())
	assert.Equal(t, 5, tr.Len())

	weekly := 0
	for _, h := range tr.Habits() {
		if h.Periodicity == models.Weekly {
			weekly++
		}
	}
	assert.Equal(t, 2, weekly)

	assert.Equal(t, 0, tr.SeedDefaults(), "non-empty collection is left alone")
	assert.Equal(t, 5, tr.Len())
}
