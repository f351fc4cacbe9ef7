package views

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FeedKind is the role a picked file plays in building the trie.
type FeedKind int

const (
	FeedUnknown  FeedKind = iota
	FeedWords             // JSONL word list
	FeedConcepts          // YAML concept suites
	FeedHanzi             // Character frequency list
)

func (k FeedKind) String() string {
	switch k {
	case FeedWords:
		return "dictionary"
	case FeedConcepts:
		return "concepts"
	case FeedHanzi:
		return "hanzi"
	default:
		return "unknown"
	}
}

// ClassifyFeed infers the feed kind from a file extension.
func ClassifyFeed(path string) FeedKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return FeedWords
	case ".yaml", ".yml":
		return FeedConcepts
	case ".txt", ".tsv":
		return FeedHanzi
	default:
		return FeedUnknown
	}
}

// FeedExtensions lists the extensions the picker offers.
var FeedExtensions = []string{".jsonl", ".json", ".yaml", ".yml", ".txt", ".tsv"}

// FileSelectedMsg is sent when a feed file is picked.
type FileSelectedMsg struct {
	Path string
	Kind FeedKind
}

var (
	fpPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c677d")).
			Italic(true)

	fpDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#48cae4")).
			Bold(true)

	fpFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0fbfc"))

	fpKindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c677d"))

	fpSelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffd166")).
			Background(lipgloss.Color("#023e8a"))
)

// FileEntry is a listed file or directory.
type FileEntry struct {
	Name  string
	IsDir bool
	Path  string
}

// FilePickerModel browses for dictionary feeds.
type FilePickerModel struct {
	dir        string
	entries    []FileEntry
	selected   int
	offset     int
	extensions []string
	err        error

	width  int
	height int
}

// NewFilePickerModel starts browsing in dir, or the home directory when dir
// does not exist.
func NewFilePickerModel(dir string) FilePickerModel {
	if st, err := os.Stat(dir); dir == "" || err != nil || !st.IsDir() {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "/"
	}
	m := FilePickerModel{dir: dir, extensions: FeedExtensions}
	m.load()
	return m
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory being listed.
func (m FilePickerModel) Dir() string { return m.dir }

// Entries returns the listed entries.
func (m FilePickerModel) Entries() []FileEntry { return m.entries }

func (m *FilePickerModel) load() {
	m.entries, m.selected, m.offset, m.err = nil, 0, 0, nil

	listing, err := os.ReadDir(m.dir)
	if err != nil {
		m.err = err
		return
	}
	if parent := filepath.Dir(m.dir); parent != m.dir {
		m.entries = append(m.entries, FileEntry{Name: "..", IsDir: true, Path: parent})
	}

	var dirs, files []FileEntry
	for _, e := range listing {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fe := FileEntry{Name: e.Name(), IsDir: e.IsDir(), Path: filepath.Join(m.dir, e.Name())}
		switch {
		case e.IsDir():
			dirs = append(dirs, fe)
		case m.accepts(e.Name()):
			files = append(files, fe)
		}
	}
	byName := func(list []FileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)
	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

func (m *FilePickerModel) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return len(m.extensions) == 0
}

func (m FilePickerModel) hasFiles() bool {
	for _, e := range m.entries {
		if !e.IsDir {
			return true
		}
	}
	return false
}

func (m *FilePickerModel) chdir(dir string) {
	m.dir = dir
	m.load()
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "ctrl+d":
		m.move(m.visible() / 2)
	case "ctrl+u":
		m.move(-m.visible() / 2)
	case "g":
		m.move(-len(m.entries))
	case "G":
		m.move(len(m.entries))
	case "backspace", "h":
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.chdir(parent)
		}
	case "~":
		if home, _ := os.UserHomeDir(); home != "" {
			m.chdir(home)
		}
	case "enter", "l", "right":
		if m.selected >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.selected]
		if entry.IsDir {
			m.chdir(entry.Path)
			return m, nil
		}
		return m, func() tea.Msg {
			return FileSelectedMsg{Path: entry.Path, Kind: ClassifyFeed(entry.Path)}
		}
	}
	return m, nil
}

func (m *FilePickerModel) move(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), len(m.entries)-1)

	h := m.visible()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
}

func (m *FilePickerModel) visible() int {
	return max(m.height-8, 5)
}

// View renders the picker.
func (m FilePickerModel) View() string {
	var b strings.Builder
	rule := dividerStyle.Render(strings.Repeat("─", max(min(m.width-4, 60), 0)))

	b.WriteString(titleStyle.Render("Open Dictionary Feed"))
	b.WriteString("\n\n")
	b.WriteString(fpPathStyle.Render(m.dir))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(rule)
	b.WriteString("\n")

	if !m.hasFiles() {
		b.WriteString(helpStyle.Render("  (no feed files here)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.visible(), len(m.entries))
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		prefix, style := "  ", fpFileStyle
		if e.IsDir {
			style = fpDirStyle
		}
		if i == m.selected {
			prefix, style = "> ", fpSelectedStyle
		}

		line := prefix + style.Render(e.Name)
		if e.IsDir {
			line += "/"
		} else {
			line += "  " + fpKindStyle.Render(ClassifyFeed(e.Path).String())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.entries) > m.visible() {
		b.WriteString(helpStyle.Render("↕ scroll"))
		b.WriteString("\n")
	}

	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(".jsonl words • .yaml concepts • .txt hanzi"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open • backspace: parent • ~: home"))
	return b.String()
}
