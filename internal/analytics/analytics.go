// Package analytics provides read-only queries over a habit collection.
//
// Every function takes a snapshot slice and never mutates the habits in it.
// Streak figures are current streaks, i.e. the run ending at each habit's most
// recent completion, not the longest run in its history.
package analytics

import (
	"time"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
)

// Summary is a display-ready view of one habit
type Summary struct {
	Name           string             `json:"name" yaml:"name"`
	Periodicity    models.Periodicity `json:"periodicity" yaml:"periodicity"`
	Streak         int                `json:"streak" yaml:"streak"`
	Completions    int                `json:"completions" yaml:"completions"`
	CreatedAt      time.Time          `json:"created_at" yaml:"created_at"`
	LastCompletion *time.Time         `json:"last_completion,omitempty" yaml:"last_completion,omitempty"`
}

// Names returns the habit names in collection order
func Names(habits []*models.Habit) []string {
	names := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.Name)
	}
	return names
}

// FilterByPeriodicity returns the names of habits whose periodicity equals p,
// in collection order. Unknown periodicities match nothing.
func FilterByPeriodicity(habits []*models.Habit, p models.Periodicity) []string {
	names := []string{}
	for _, h := range habits {
		if h.Periodicity == p {
			names = append(names, h.Name)
		}
	}
	return names
}

// MaxStreak returns the highest current streak across all habits, or 0.
func MaxStreak(habits []*models.Habit) int {
	max := 0
	for _, h := range habits {
		if s := h.Streak(); s > max {
			max = s
		}
	}
	return max
}

// StreakFor returns the current streak of the first habit named name.
// A missing habit reports 0, the same as a habit with no streak.
func StreakFor(habits []*models.Habit, name string) int {
	for _, h := range habits {
		if h.Name == name {
			return h.Streak()
		}
	}
	return 0
}

// Summarize builds a Summary per habit, preserving order
func Summarize(habits []*models.Habit) []Summary {
	summaries := make([]Summary, 0, len(habits))
	for _, h := range habits {
		s := Summary{
			Name:        h.Name,
			Periodicity: h.Periodicity,
			Streak:      h.Streak(),
			Completions: len(h.Completions),
			CreatedAt:   h.CreatedAt,
		}
		if last, ok := h.LastCompletion(); ok {
			s.LastCompletion = &last
		}
		summaries = append(summaries, s)
	}
	return summaries
}
