package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/tudu/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

	todoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doneText   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

var statusBadges = map[todo.Status]string{
	todo.StatusTodo:       "[ ]",
	todo.StatusInProgress: "[~]",
	todo.StatusDone:       "[x]",
}

func renderBadge(status todo.Status) string {
	badge, ok := statusBadges[status]
	if !ok {
		badge = "[?]"
	}
	switch status {
	case todo.StatusInProgress:
		return doingStyle.Render(badge)
	case todo.StatusDone:
		return doneStyle.Render(badge)
	default:
		return todoStyle.Render(badge)
	}
}
