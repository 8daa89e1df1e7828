package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Periodicity is the repetition cadence a habit must be completed at
type Periodicity string

const (
	Daily  Periodicity = "daily"
	Weekly Periodicity = "weekly"
)

// Streak tolerance windows. The extra half period absorbs several completions
// inside one period and small clock drift between consecutive periods.
const (
	DailyTolerance  = 36 * time.Hour  // 1.5 days
	WeeklyTolerance = 180 * time.Hour // 7.5 days
)

var (
	// ErrEmptyName is returned when a habit has no name
	ErrEmptyName = errors.New("habit name is required")

	// ErrInvalidPeriodicity is returned for periodicities other than daily or weekly
	ErrInvalidPeriodicity = errors.New("periodicity must be daily or weekly")
)

// ParsePeriodicity normalizes user input into a Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriodicity, s)
	}
	return p, nil
}

// Valid reports whether p is daily or weekly
func (p Periodicity) Valid() bool {
	return p == Daily || p == Weekly
}

// Tolerance returns the maximum gap between two completions that still
// extends a streak. Unknown periodicities have no tolerance.
func (p Periodicity) Tolerance() time.Duration {
	switch p {
	case Daily:
		return DailyTolerance
	case Weekly:
		return WeeklyTolerance
	default:
		return 0
	}
}

func (p Periodicity) String() string {
	return string(p)
}

// Habit represents a recurring habit and its completion history
type Habit struct {
	Name        string      // Unique name, acts as the primary key
	Periodicity Periodicity // daily or weekly
	CreatedAt   time.Time   // Creation time
	Completions []time.Time // Completion timestamps in insertion order (not necessarily sorted)
}

// NewHabit creates a habit created now with no completions.
func NewHabit(name string, periodicity Periodicity) *Habit {
	return &Habit{
		Name:        name,
		Periodicity: periodicity,
		CreatedAt:   time.Now(),
		Completions: []time.Time{},
	}
}

// Validate checks if the habit has all required fields
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if !h.Periodicity.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidPeriodicity, h.Periodicity)
	}
	return nil
}

// Complete records a completion at the current time.
func (h *Habit) Complete() {
	h.CompleteAt(time.Now())
}

// CompleteAt records a completion at t. Repeated calls are not de-duplicated.
func (h *Habit) CompleteAt(t time.Time) {
	h.Completions = append(h.Completions, t)
}

// Streak returns the number of consecutive periods ending at the most recent
// completion. The walk goes backwards over the sorted history and stops at the
// first gap wider than the periodicity's tolerance; older runs are ignored.
func (h *Habit) Streak() int {
	if len(h.Completions) == 0 {
		return 0
	}

	// An unknown periodicity never extends past the latest completion.
	if !h.Periodicity.Valid() {
		return 1
	}

	sorted := h.sortedCompletions()
	tolerance := h.Periodicity.Tolerance()

	streak := 1
	for i := len(sorted) - 1; i > 0; i-- {
		if sorted[i].Sub(sorted[i-1]) > tolerance {
			break
		}
		streak++
	}

	return streak
}

// LastCompletion returns the most recent completion by value
func (h *Habit) LastCompletion() (time.Time, bool) {
	if len(h.Completions) == 0 {
		return time.Time{}, false
	}
	latest := h.Completions[0]
	for _, c := range h.Completions[1:] {
		if c.After(latest) {
			latest = c
		}
	}
	return latest, true
}

// sortedCompletions returns an ascending copy; insertion order is kept intact.
func (h *Habit) sortedCompletions() []time.Time {
	sorted := make([]time.Time, len(h.Completions))
	copy(sorted, h.Completions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}
