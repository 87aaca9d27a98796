package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
)

const maxTitleWidth = 60

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// RenderTable prints up to limit meetings as a bordered table.
// A limit of zero or less prints every meeting.
func RenderTable(w io.Writer, meetings []*meeting.Meeting, limit int) error {
	if len(meetings) == 0 {
		_, err := fmt.Fprintln(w, "No meetings found.")
		return err
	}

	shown := meetings
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, m := range shown {
		rows = append(rows, []string{
			m.DateString(),
			m.TimeString(),
			truncate(m.Title, maxTitleWidth),
			m.Place,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Date", "Time", "Title", "Place").
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	if len(shown) < len(meetings) {
		_, err := fmt.Fprintf(w, "... and %d more\n", len(meetings)-len(shown))
		return err
	}
	return nil
}

// WriteSummary prints the total and the covered date range
func WriteSummary(w io.Writer, meetings []*meeting.Meeting) error {
	if len(meetings) == 0 {
		_, err := fmt.Fprintln(w, "No meetings found.")
		return err
	}

	earliest, latest := meetings[0].Date, meetings[0].Date
	for _, m := range meetings[1:] {
		if m.Date.Before(earliest) {
			earliest = m.Date
		}
		if m.Date.After(latest) {
			latest = m.Date
		}
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d meetings\nDate range: %s to %s\n",
		len(meetings),
		earliest.Format(meeting.DateLayout),
		latest.Format(meeting.DateLayout))
	return err
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
