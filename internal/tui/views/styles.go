// Package views provides the individual views for the dive TUI.
package views

import "github.com/charmbracelet/lipgloss"

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90e0ef")).
			Background(lipgloss.Color("#03045e")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c677d"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef476f")).
			Bold(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06d6a0")).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0077b6"))
)
