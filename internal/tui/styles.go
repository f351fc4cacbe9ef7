// Package tui provides the interactive terminal front end for dive.
package tui

import "github.com/charmbracelet/lipgloss"

// Deep-water palette
var (
	ColorPrimary   = lipgloss.Color("#90e0ef") // Titles
	ColorSecondary = lipgloss.Color("#48cae4") // Current view, help sections
	ColorAccent    = lipgloss.Color("#ffd166") // Focus
	ColorMuted     = lipgloss.Color("#5c677d")
	ColorText      = lipgloss.Color("#e0fbfc")
	ColorError     = lipgloss.Color("#ef476f")
	ColorBg        = lipgloss.Color("#03045e")
	ColorBgAlt     = lipgloss.Color("#023e8a")
	ColorBorder    = lipgloss.Color("#0077b6")
)

// Sidebar styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Background(ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SidebarItemActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Background(ColorBgAlt).
				Padding(0, 1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginTop(1).
				Padding(0, 1)

	SidebarStatusStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Padding(0, 1)

	SidebarErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true).
				Padding(0, 1)
)

// Help overlay styles
var (
	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	HelpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Width(12)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2).
			Width(54)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
