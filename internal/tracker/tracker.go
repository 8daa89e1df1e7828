// Package tracker owns the in-memory collection of habits.
//
// A Tracker is the single owner of its habits: commands mutate it through
// Add, Delete and Complete, analytics read a snapshot from Habits, and the
// storage layer persists that same snapshot on exit. Names are unique within
// a Tracker.
package tracker

import (
	"errors"
	"fmt"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
)

// ErrDuplicateHabit is returned by Add when the name is already tracked
var ErrDuplicateHabit = errors.New("habit already exists")

// defaultHabits are added to an empty collection on first start
var defaultHabits = []struct {
	name        string
	periodicity models.Periodicity
}{
	{"Read Book", models.Daily},
	{"Exercise", models.Daily},
	{"Drink Water", models.Daily},
	{"Meditate", models.Weekly},
	{"Call Family", models.Weekly},
}

// Tracker manages a collection of habits keyed by name
type Tracker struct {
	habits  []*models.Habit
	deleted []string
}

// New creates a Tracker holding the given habits in order.
func New(habits ...*models.Habit) *Tracker {
	t := &Tracker{habits: make([]*models.Habit, 0, len(habits))}
	t.habits = append(t.habits, habits...)
	return t
}

// Add creates a habit with a fresh creation time and no completions.
// Returns ErrDuplicateHabit if a habit with the same name exists.
func (t *Tracker) Add(name string, periodicity models.Periodicity) (*models.Habit, error) {
	habit := models.NewHabit(name, periodicity)
	if err := habit.Validate(); err != nil {
		return nil, err
	}
	if _, exists := t.Get(name); exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateHabit, name)
	}

	t.habits = append(t.habits, habit)
	return habit, nil
}

// Delete removes every habit with the given name. Absent names are ignored.
func (t *Tracker) Delete(name string) {
	kept := t.habits[:0]
	removed := false
	for _, h := range t.habits {
		if h.Name == name {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	// Clear the tail so removed habits can be collected
	for i := len(kept); i < len(t.habits); i++ {
		t.habits[i] = nil
	}
	t.habits = kept

	if removed {
		t.deleted = append(t.deleted, name)
	}
}

// Complete marks the first habit with the given name as completed now.
// Returns false if no habit matches.
func (t *Tracker) Complete(name string) bool {
	habit, ok := t.Get(name)
	if !ok {
		return false
	}
	habit.Complete()
	return true
}

// Get returns the first habit with the given name
func (t *Tracker) Get(name string) (*models.Habit, bool) {
	for _, h := range t.habits {
		if h.Name == name {
			return h, true
		}
	}
	return nil, false
}

// Habits returns the tracked habits in insertion order. The returned slice is
// a copy; the habits themselves are shared.
func (t *Tracker) Habits() []*models.Habit {
	out := make([]*models.Habit, len(t.habits))
	copy(out, t.habits)
	return out
}

// Len returns the number of tracked habits
func (t *Tracker) Len() int {
	return len(t.habits)
}

// Deleted returns the names removed since the tracker was created, so the
// caller can drop them from persistent storage. A name that was deleted and
// added again is still listed; deleting it before saving replaces the old
// stored record instead of updating it.
func (t *Tracker) Deleted() []string {
	out := make([]string, len(t.deleted))
	copy(out, t.deleted)
	return out
}

// SeedDefaults adds the predefined habits when the collection is empty.
// Returns the number of habits added.
func (t *Tracker) SeedDefaults() int {
	if len(t.habits) > 0 {
		return 0
	}
	for _, d := range defaultHabits {
		t.habits = append(t.habits, models.NewHabit(d.name, d.periodicity))
	}
	return len(defaultHabits)
}
