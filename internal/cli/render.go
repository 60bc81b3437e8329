package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/netkeeper/internal/journal"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

func severityStyle(s journal.Severity) lipgloss.Style {
	switch s {
	case journal.Success:
		return successStyle
	case journal.Error:
		return errorStyle
	default:
		return infoStyle
	}
}

// renderEntry renders one activity-log line, coloured by severity.
func renderEntry(e journal.Entry) string {
	return severityStyle(e.Severity).Render(e.Text)
}

// renderRecord renders a history row with its run and time.
func renderRecord(r journal.Record, loc *time.Location) string {
	run := r.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	prefix := faintStyle.Render(fmt.Sprintf("%s %s", run, r.At.In(loc).Format(time.DateTime)))
	return prefix + " " + renderEntry(r.Entry)
}
