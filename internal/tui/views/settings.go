package views

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/dive/internal/config"
)

var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5c677d")).
				Italic(true)

	settingsTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7d8597")).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffd166")).
				Background(lipgloss.Color("#023e8a")).
				Padding(0, 2)

	settingsKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ade8f4")).
				Bold(true).
				Width(24)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0fbfc"))
)

// settingsTab is one section of the settings file.
type settingsTab struct {
	name    string
	section func(config.Settings) any
}

var settingsTabs = []settingsTab{
	{"Prediction", func(s config.Settings) any { return s.Prediction }},
	{"Physics", func(s config.Settings) any { return s.Physics }},
	{"Gesture", func(s config.Settings) any { return s.Gesture }},
	{"Layout", func(s config.Settings) any { return s.Layout }},
	{"Paths", func(s config.Settings) any { return s.Paths }},
	{"UI", func(s config.Settings) any { return s.UI }},
	{"Logging", func(s config.Settings) any { return s.Logging }},
}

// SettingsModel shows the active settings one section at a time.
type SettingsModel struct {
	settings  config.Settings
	configDir string

	tab     int
	scrollY int

	width  int
	height int
}

// NewSettingsModel creates a settings view.
func NewSettingsModel(s config.Settings, configDir string) SettingsModel {
	return SettingsModel{settings: s, configDir: configDir}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "right", "l":
		m.tab = (m.tab + 1) % len(settingsTabs)
		m.scrollY = 0
	case "left", "h":
		m.tab = (m.tab + len(settingsTabs) - 1) % len(settingsTabs)
		m.scrollY = 0
	case "j", "down":
		m.scrollY++
	case "k", "up":
		m.scrollY = max(m.scrollY-1, 0)
	case "g":
		m.scrollY = 0
	}
	return m, nil
}

// Rows returns the key/value rows of the current tab.
func (m SettingsModel) Rows() ([][2]string, error) {
	return sectionRows(settingsTabs[m.tab].section(m.settings))
}

// sectionRows flattens one settings section into key/value pairs in the
// order the settings file uses.
func sectionRows(section any) ([][2]string, error) {
	var doc yaml.Node
	if err := doc.Encode(section); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("section is not a mapping")
	}
	rows := make([][2]string, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		value := doc.Content[i+1].Value
		if value == "" {
			value = "-"
		}
		rows = append(rows, [2]string{doc.Content[i].Value, value})
	}
	return rows, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(settingsPathStyle.Render(filepath.Join(m.configDir, config.SettingsFile)))
	b.WriteString("\n\n")

	var tabs []string
	for i, t := range settingsTabs {
		style := settingsTabStyle
		if i == m.tab {
			style = settingsTabActiveStyle
		}
		tabs = append(tabs, style.Render(t.name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 0))))
	b.WriteString("\n\n")

	rows, err := m.Rows()
	if err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		b.WriteString("\n")
	}
	visible := max(m.height-12, 5)
	start := min(m.scrollY, max(len(rows)-1, 0))
	end := min(start+visible, len(rows))
	for _, r := range rows[start:end] {
		b.WriteString(settingsKeyStyle.Render(r[0]))
		b.WriteString(settingsValueStyle.Render(r[1]))
		b.WriteString("\n")
	}
	if len(rows) > visible {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(rows))))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←→: switch section • j/k: scroll • edit the file and restart to apply"))
	return b.String()
}
