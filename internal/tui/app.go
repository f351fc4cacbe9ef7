package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/dive/internal/clipboard"
	"github.com/f3rmion/dive/internal/config"
	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/logging"
	"github.com/f3rmion/dive/internal/session"
	"github.com/f3rmion/dive/internal/trie"
	"github.com/f3rmion/dive/internal/tui/bigchar"
	"github.com/f3rmion/dive/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewDive ViewType = iota
	ViewPredict
	ViewFilePicker
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// TrieReloadedMsg carries a rebuilt trie into the program.
type TrieReloadedMsg struct {
	Trie    *trie.Trie
	Stats   dictionary.Stats
	Sources dictionary.Sources
	Err     error
}

// FeedChangedMsg reports that a feed file changed on disk. The app rebuilds
// from the sources it is currently showing.
type FeedChangedMsg struct{}

// Rebuild builds a trie from src. It blocks, so the app runs it as a command.
func Rebuild(src dictionary.Sources, log *slog.Logger) TrieReloadedMsg {
	t, stats, err := dictionary.Build(src, log)
	return TrieReloadedMsg{Trie: t, Stats: stats, Sources: src, Err: err}
}

// Options wires the app to its collaborators.
type Options struct {
	Settings  config.Settings
	ConfigDir string
	Trie      *trie.Trie
	Stats     dictionary.Stats
	Logger    *slog.Logger
	Glyphs    *bigchar.Renderer
	Clipboard clipboard.Writer
}

// AppModel is the main TUI model
type AppModel struct {
	settings config.Settings
	sources  dictionary.Sources
	stats    dictionary.Stats
	log      *slog.Logger
	loadErr  error

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	diveView       views.DiveModel
	predictView    views.PredictModel
	filePickerView views.FilePickerModel
	settingsView   views.SettingsModel

	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Trie == nil {
		opts.Trie = trie.New()
	}
	cfg := opts.Settings.Session()

	return AppModel{
		settings:     opts.Settings,
		sources:      opts.Settings.Sources(),
		stats:        opts.Stats,
		log:          opts.Logger,
		sidebarWidth: 22,
		currentView:  ViewDive,
		menuItems: []MenuItem{
			{Label: "Dive", View: ViewDive, Shortcut: "1"},
			{Label: "Predict", View: ViewPredict, Shortcut: "2"},
			{Label: "Dictionary", View: ViewFilePicker, Shortcut: "3"},
			{Label: "Settings", View: ViewSettings, Shortcut: "4"},
		},

		diveView:       views.NewDiveModel(opts.Trie, cfg, opts.Settings.UI, opts.Glyphs, opts.Clipboard, opts.Logger),
		predictView:    views.NewPredictModel(opts.Trie, cfg.MaxVisible),
		filePickerView: views.NewFilePickerModel(opts.ConfigDir),
		settingsView:   views.NewSettingsModel(opts.Settings, opts.ConfigDir),
	}
}

// Session returns the running input session.
func (m AppModel) Session() *session.Session { return m.diveView.Session() }

// CurrentView returns the active view.
func (m AppModel) CurrentView() ViewType { return m.currentView }

// Init starts the frame clock.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, views.Tick(m.settings.UI.FPS))
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2
		m.diveView.SetSize(contentWidth, contentHeight)
		m.predictView.SetSize(contentWidth, contentHeight)
		m.filePickerView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.FrameMsg:
		// The frame clock runs whichever view is shown.
		var cmd tea.Cmd
		m.diveView, cmd = m.diveView.Update(msg)
		return m, cmd

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case views.FileSelectedMsg:
		return m, m.openFeed(msg)

	case FeedChangedMsg:
		return m, m.rebuild(m.sources)

	case TrieReloadedMsg:
		m.applyReload(msg)
		return m, nil
	}

	if m.sidebarActive {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewDive:
		m.diveView, cmd = m.diveView.Update(msg)
	case ViewPredict:
		m.predictView, cmd = m.predictView.Update(msg)
	case ViewFilePicker:
		m.filePickerView, cmd = m.filePickerView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// handleGlobalKey processes keys that work in every view. The predict view
// owns a text input, so only control keys are global there.
func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (AppModel, tea.Cmd, bool) {
	typing := m.currentView == ViewPredict && !m.sidebarActive

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "tab":
		m.sidebarActive = !m.sidebarActive
		return m, nil, true
	case "esc":
		if m.sidebarActive {
			return m, tea.Quit, true
		}
		m.sidebarActive = true
		return m, nil, true
	}
	if typing {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "?":
		m.showHelp = true
		return m, nil, true
	case "1", "2", "3", "4":
		for _, item := range m.menuItems {
			if item.Shortcut == msg.String() {
				m.switchTo(item.View)
			}
		}
		return m, nil, true
	}

	if m.sidebarActive {
		switch msg.String() {
		case "j", "down":
			m.selectedMenu = min(m.selectedMenu+1, len(m.menuItems)-1)
		case "k", "up":
			m.selectedMenu = max(m.selectedMenu-1, 0)
		case "enter", "l", "right":
			m.switchTo(m.menuItems[m.selectedMenu].View)
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
		}
	}
}

// openFeed replaces one feed of the current sources and rebuilds.
func (m *AppModel) openFeed(msg views.FileSelectedMsg) tea.Cmd {
	src := m.sources
	switch msg.Kind {
	case views.FeedWords:
		src.Dictionary = msg.Path
	case views.FeedConcepts:
		src.Concepts = msg.Path
	case views.FeedHanzi:
		src.Hanzi = msg.Path
	default:
		m.loadErr = fmt.Errorf("%s: unrecognized feed type", msg.Path)
		return nil
	}
	return m.rebuild(src)
}

func (m AppModel) rebuild(src dictionary.Sources) tea.Cmd {
	log := m.log
	return func() tea.Msg { return Rebuild(src, log) }
}

// applyReload installs a rebuilt trie, carrying over what the user taught
// the old one.
func (m *AppModel) applyReload(msg TrieReloadedMsg) {
	if msg.Err != nil {
		m.loadErr = msg.Err
		m.log.Error("dictionary reload failed", "error", msg.Err)
		return
	}
	boosts, bigrams := m.Session().ExportUserData()
	msg.Trie.ImportUserData(boosts)
	msg.Trie.ImportBigramData(bigrams)

	m.sources = msg.Sources
	m.stats = msg.Stats
	m.loadErr = nil
	m.diveView.SetTrie(msg.Trie)
	m.predictView.SetTrie(msg.Trie)
	m.log.Info("dictionary reloaded",
		"words", msg.Stats.Words,
		"suites", msg.Stats.Suites,
		"skipped", msg.Stats.Skipped,
	)
	if m.currentView == ViewFilePicker {
		m.switchTo(ViewDive)
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewDive:
		content = m.diveView.View()
	case ViewPredict:
		content = m.predictView.View()
	case ViewFilePicker:
		content = m.filePickerView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	mainContent := ContentStyle.
		Width(m.width - m.sidebarWidth - 4).
		Height(m.height - 2).
		Render(content)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	items := []string{SidebarTitleStyle.Render("  ◎ dive  "), ""}

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label
		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		}
		items = append(items, style.Render(label))
	}

	items = append(items, "",
		SidebarStatusStyle.Render(fmt.Sprintf("%d words", m.stats.Words)),
		SidebarStatusStyle.Render(fmt.Sprintf("%d concepts", m.stats.Concepts)),
	)
	if m.stats.Skipped > 0 {
		items = append(items, SidebarStatusStyle.Render(fmt.Sprintf("%d skipped", m.stats.Skipped)))
	}
	if m.loadErr != nil {
		items = append(items, "", SidebarErrorStyle.Width(m.sidebarWidth-2).Render(m.loadErr.Error()))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m AppModel) renderHelp() string {
	row := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n"
	}

	help := HelpTitleStyle.Render("dive - steer, dwell, swipe") + "\n\n"

	help += HelpSectionStyle.Render("Global Keys") + "\n"
	help += row("1-4", "Switch views")
	help += row("tab", "Toggle sidebar focus")
	help += row("?", "Show this help")
	help += row("q", "Quit")

	help += HelpSectionStyle.Render("Dive View") + "\n"
	help += row("drag", "Steer the camera")
	help += row("hold still", "Dwell to select the focus")
	help += row("flick up", "Accept the top prediction")
	help += row("flick down", "Discard the word")
	help += row("arrows", "Steer without a mouse")
	help += row("a / x", "Accept / discard by key")
	help += row("y", "Copy text to clipboard")
	help += row("n", "Start a new session")

	help += HelpSectionStyle.Render("Predict View") + "\n"
	help += row("type", "Rank what follows a prefix")
	help += row("ctrl+l", "Clear the query")

	help += HelpSectionStyle.Render("Dictionary") + "\n"
	help += row("enter", "Open a feed or directory")
	help += row("backspace", "Go to parent dir")

	help += "\n" + SidebarHelpStyle.Italic(true).Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(help))
}
