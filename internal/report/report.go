// Package report renders habit summaries as a Markdown table and, optionally,
// as HTML converted from that Markdown.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/analytics"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
)

const dateLayout = "2006-01-02 15:04"

type Renderer struct {
	markdown goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Markdown builds the report document for habits, stamped with generatedAt.
func (r *Renderer) Markdown(habits []*models.Habit, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Habit Report\n\n")
	fmt.Fprintf(&sb, "Generated %s\n\n", generatedAt.Format(dateLayout))

	summaries := analytics.Summarize(habits)
	if len(summaries) == 0 {
		sb.WriteString("No habits tracked.\n")
		return sb.String()
	}

	sb.WriteString("| Habit | Periodicity | Streak | Completions | Last completed |\n")
	sb.WriteString("|---|---|---:|---:|---|\n")
	for _, s := range summaries {
		last := "never"
		if s.LastCompletion != nil {
			last = s.LastCompletion.Format(dateLayout)
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %s |\n",
			escapeCell(s.Name), s.Periodicity, s.Streak, s.Completions, last)
	}

	fmt.Fprintf(&sb, "\nLongest current streak: %d\n", analytics.MaxStreak(habits))
	return sb.String()
}

// HTML converts the Markdown report to an HTML fragment
func (r *Renderer) HTML(habits []*models.Habit, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(r.Markdown(habits, generatedAt)), &buf); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeCell keeps a habit name from breaking the table row
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
