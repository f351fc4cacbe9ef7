package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/dive/internal/trie"
)

var (
	predictKindStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5c677d")).
				Width(10)

	predictScoreStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#06d6a0")).
				Width(8).
				Align(lipgloss.Right)

	predictSymbolStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffd166")).
				Bold(true).
				Width(14)

	predictWordsStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0fbfc"))
)

// Prediction is one ranked candidate with the parts of its score.
type Prediction struct {
	Node   *trie.Node
	Score  int
	Boost  int
	Bigram int
	Words  []trie.WordRank
}

// Rank explains the candidates presented after prefix. The previous word
// supplies bigram context.
func Rank(t *trie.Trie, prefix, previous string, max int) []Prediction {
	nodes := t.Predictions(prefix, max, previous)
	out := make([]Prediction, len(nodes))
	for i, n := range nodes {
		p := Prediction{Node: n, Score: t.Score(n, previous), Words: n.ReachableWords(3)}
		if n.IsWordEnd() {
			p.Boost = t.Boost(n.Word)
			p.Bigram = t.BigramCount(previous, n.Word)
		}
		out[i] = p
	}
	return out
}

// ParseQuery splits "previous prefix" input. A single token is the prefix.
// A trailing space means the prefix is empty and the token is context.
func ParseQuery(q string) (prefix, previous string) {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return "", ""
	}
	if strings.HasSuffix(q, " ") {
		return "", fields[len(fields)-1]
	}
	prefix = fields[len(fields)-1]
	if len(fields) > 1 {
		previous = fields[len(fields)-2]
	}
	return prefix, previous
}

// PredictModel is the prediction explorer: type a prefix and see how the
// trie ranks what comes next.
type PredictModel struct {
	input   textinput.Model
	trie    *trie.Trie
	max     int
	results []Prediction

	prefix   string
	previous string

	width  int
	height int
}

// NewPredictModel creates a prediction explorer over t showing max rows.
func NewPredictModel(t *trie.Trie, max int) PredictModel {
	ti := textinput.New()
	ti.Placeholder = "previous word, then a prefix..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#48cae4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd166"))

	m := PredictModel{input: ti, trie: t, max: max}
	m.refresh()
	return m
}

// SetSize updates the view dimensions.
func (m *PredictModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTrie points the explorer at a rebuilt trie.
func (m *PredictModel) SetTrie(t *trie.Trie) {
	m.trie = t
	m.refresh()
}

// Results returns the current ranking.
func (m PredictModel) Results() []Prediction { return m.results }

// Focus gives the query input the cursor.
func (m *PredictModel) Focus() tea.Cmd { return m.input.Focus() }

// Blur releases the cursor.
func (m *PredictModel) Blur() { m.input.Blur() }

// Update handles messages. Ranking follows every keystroke.
func (m PredictModel) Update(msg tea.Msg) (PredictModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+l" {
		m.input.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *PredictModel) refresh() {
	m.prefix, m.previous = ParseQuery(strings.ToLower(m.input.Value()))
	if m.trie == nil {
		m.results = nil
		return
	}
	m.results = Rank(m.trie, m.prefix, m.previous, m.max)
}

// View renders the explorer.
func (m PredictModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Predict"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	ctx := "prefix " + quote(m.prefix)
	if m.previous != "" {
		ctx += "  after " + quote(m.previous)
	}
	if m.trie != nil && m.prefix != "" {
		if _, ok := m.trie.FindNode(m.prefix); !ok {
			ctx += "  (unknown, showing top letters)"
		}
	}
	b.WriteString(helpStyle.Render(ctx))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(helpStyle.Render("no candidates"))
		b.WriteString("\n")
	}
	wordsWidth := max(m.width-36, 10)
	for _, p := range m.results {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			predictSymbolStyle.Render(runewidth.Truncate(p.Node.Display(), 12, "…")),
			predictKindStyle.Render(p.Node.Kind.String()),
			predictScoreStyle.Render(fmt.Sprint(p.Score)),
			"  ",
			predictWordsStyle.Render(runewidth.Truncate(formatWords(p), wordsWidth, "…")),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type to rank • ctrl+l: clear"))
	return b.String()
}

func formatWords(p Prediction) string {
	var parts []string
	if p.Boost > 0 {
		parts = append(parts, fmt.Sprintf("boost %d", p.Boost))
	}
	if p.Bigram > 0 {
		parts = append(parts, fmt.Sprintf("bigram %d", p.Bigram))
	}
	for _, w := range p.Words {
		parts = append(parts, fmt.Sprintf("%s(%d)", w.Word, w.Frequency))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "∅"
	}
	return `"` + s + `"`
}
