package views

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/dive/internal/clipboard"
	"github.com/f3rmion/dive/internal/config"
	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/gesture"
	"github.com/f3rmion/dive/internal/session"
	"github.com/f3rmion/dive/internal/trie"
	"github.com/f3rmion/dive/internal/tui/bigchar"
)

// Dive view styles
var (
	diveCandidateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0fbfc"))

	diveConceptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#06d6a0"))

	diveFocusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffd166")).
			Background(lipgloss.Color("#023e8a"))

	diveCrosshairStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0077b6"))

	diveGlyphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd166"))

	diveLabelBoxStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffd166")).
				Background(lipgloss.Color("#023e8a")).
				Padding(1, 4).
				Align(lipgloss.Center)

	diveTextBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#48cae4")).
				Foreground(lipgloss.Color("#e0fbfc")).
				Padding(0, 1)

	divePrefixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#48cae4")).
			Bold(true)

	diveMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c677d"))

	diveBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef476f"))
)

// Canvas palette slots.
const (
	slotCandidate = iota + 1
	slotConcept
	slotFocus
	slotCrosshair
)

const (
	panelWidth = 28
	glyphCols  = 16
	glyphRows  = 8
	eventDepth = 5
	barWidth   = 20
)

var pulseMarks = map[gesture.Pattern]string{
	gesture.PatternSelect: "●",
	gesture.PatternAccept: "▲",
	gesture.PatternReset:  "▼",
}

// FrameMsg advances the dive view by one tick.
type FrameMsg struct {
	At time.Time
}

// Tick schedules the next frame.
func Tick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return FrameMsg{At: t}
	})
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// DiveKeyMap holds the dive view bindings. Arrow keys drive a virtual
// pointer for terminals without mouse reporting.
type DiveKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Release key.Binding
	Accept  key.Binding
	Reset   key.Binding
	Copy    key.Binding
	Restart key.Binding
}

// DefaultDiveKeyMap is the built-in binding set.
var DefaultDiveKeyMap = DiveKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "steer up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "steer down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "steer left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "steer right")),
	Release: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "release")),
	Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept word")),
	Reset:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset word")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
	Restart: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new session")),
}

// ShortHelp lists the bindings shown under the view.
func (k DiveKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Release, k.Accept, k.Reset, k.Copy, k.Restart}
}

// feedback collects what the session reports during a frame. It is shared by
// pointer between copies of DiveModel.
type feedback struct {
	events []session.Event
	pulse  gesture.Pattern
	pulsed time.Time
}

func (f *feedback) Pulse(p gesture.Pattern) {
	f.pulse = p
	f.pulsed = time.Now()
}

// flashing reports whether a pulse was played in the last fifth of a second.
func (f *feedback) flashing() bool {
	return !f.pulsed.IsZero() && time.Since(f.pulsed) < 200*time.Millisecond
}

func (f *feedback) record(e session.Event) {
	f.events = append(f.events, e)
	if len(f.events) > eventDepth {
		f.events = f.events[len(f.events)-eventDepth:]
	}
}

// DiveModel is the dive view model: the candidate sphere, the focused
// glyph and the composed text.
type DiveModel struct {
	session  *session.Session
	cfg      session.Config
	ui       config.UI
	glyphs   *bigchar.Renderer
	clip     clipboard.Writer
	keys     DiveKeyMap
	feedback *feedback

	last    time.Time
	pressed bool
	virtual bool    // Pointer is driven by the keyboard
	px, py  float64 // Last pointer position in pseudo-pixels
	status  string

	width  int
	height int
}

// NewDiveModel creates a dive view with its own session over t.
func NewDiveModel(t *trie.Trie, cfg session.Config, ui config.UI, glyphs *bigchar.Renderer, clip clipboard.Writer, log *slog.Logger) DiveModel {
	fb := &feedback{}
	sess := session.New(t, cfg,
		session.WithLogger(log),
		session.WithHaptics(fb),
		session.WithOnEvent(fb.record),
	)
	if clip == nil {
		clip = &clipboard.Memory{}
	}
	return DiveModel{
		session:  sess,
		cfg:      cfg,
		ui:       ui,
		glyphs:   glyphs,
		clip:     clip,
		keys:     DefaultDiveKeyMap,
		feedback: fb,
	}
}

// Session returns the session behind the view.
func (m DiveModel) Session() *session.Session { return m.session }

// SetSize updates the view dimensions.
func (m *DiveModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTrie swaps the dictionary under the running session.
func (m *DiveModel) SetTrie(t *trie.Trie) {
	m.session.SetTrie(t)
	m.status = fmt.Sprintf("dictionary reloaded: %d words", t.Size())
}

// Update handles messages.
func (m DiveModel) Update(msg tea.Msg) (DiveModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		dt := 1 / float64(max(m.ui.FPS, 1))
		if !m.last.IsZero() {
			dt = msg.At.Sub(m.last).Seconds()
		}
		m.last = msg.At
		m.session.Frame(dt)
		return m, Tick(m.ui.FPS)

	case tea.MouseMsg:
		if !m.ui.Mouse {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m DiveModel) handleMouse(msg tea.MouseMsg) (DiveModel, tea.Cmd) {
	x := float64(msg.X) * m.ui.CellWidthPx
	y := float64(msg.Y) * m.ui.CellHeightPx

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.release()
		m.session.PointerDown(x, y)
		m.pressed, m.virtual = true, false
		m.px, m.py = x, y
	case tea.MouseActionMotion:
		if m.pressed && !m.virtual {
			m.session.PointerMove(x, y)
			m.px, m.py = x, y
		}
	case tea.MouseActionRelease:
		if m.pressed && !m.virtual {
			m.pressed = false
			return m.reportSwipe(m.session.PointerUp(x, y))
		}
	}
	return m, nil
}

func (m DiveModel) handleKey(msg tea.KeyMsg) (DiveModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.nudge(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.nudge(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.nudge(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.nudge(1, 0)
	case key.Matches(msg, m.keys.Release):
		m.release()
	case key.Matches(msg, m.keys.Accept):
		return m.reportSwipe(m.swipe(-1))
	case key.Matches(msg, m.keys.Reset):
		return m.reportSwipe(m.swipe(1))
	case key.Matches(msg, m.keys.Copy):
		text := strings.TrimSpace(m.session.Text())
		if text == "" {
			return m, nil
		}
		if err := m.clip.Write(text); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied to clipboard"
		}
		return m, clearStatusAfter(2 * time.Second)
	case key.Matches(msg, m.keys.Restart):
		m.release()
		m.session.Start()
		m.status = "new session"
		return m, clearStatusAfter(2 * time.Second)
	}
	return m, nil
}

// nudge moves the virtual pointer by one cell, pressing it first.
func (m *DiveModel) nudge(dx, dy float64) {
	if !m.pressed {
		m.px, m.py = 0, 0
		m.session.PointerDown(m.px, m.py)
		m.pressed, m.virtual = true, true
	}
	m.px += dx * m.ui.CellWidthPx
	m.py += dy * m.ui.CellHeightPx
	m.session.PointerMove(m.px, m.py)
}

// release lifts whatever pointer is down, without treating it as a swipe.
func (m *DiveModel) release() {
	if !m.pressed {
		return
	}
	m.pressed, m.virtual = false, false
	m.session.PointerCancel()
}

// swipe makes an instantaneous vertical stroke; dir < 0 is up.
func (m *DiveModel) swipe(dir float64) dive.Swipe {
	m.release()
	dist := 2 * m.cfg.Gesture.MinSwipeDistance
	m.session.PointerDown(0, 0)
	return m.session.PointerUp(0, dir*dist)
}

func (m DiveModel) reportSwipe(s dive.Swipe) (DiveModel, tea.Cmd) {
	if s == dive.SwipeNone {
		return m, nil
	}
	m.status = "swipe: " + s.String()
	return m, clearStatusAfter(time.Second)
}

// View renders the dive view.
func (m DiveModel) View() string {
	v := m.session.View()

	textBox := diveTextBoxStyle.Width(max(m.width-4, 10)).Render(m.composed(v))
	canvasW := max(m.width-panelWidth-2, 10)
	canvasH := max(m.height-lipgloss.Height(textBox)-2, 5)

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCanvas(v, canvasW, canvasH),
		"  ",
		m.renderPanel(v),
	)

	var help []string
	for _, b := range m.keys.ShortHelp() {
		help = append(help, b.Help().Key+": "+b.Help().Desc)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		textBox,
		diveMutedStyle.Render(strings.Join(help, " • ")),
	)
}

func (m DiveModel) composed(v session.View) string {
	text := v.Text + divePrefixStyle.Render(v.Prefix+"▏")
	if v.Text == "" && v.Prefix == "" {
		return diveMutedStyle.Render("hold and drag to steer, dwell to select")
	}
	return text
}

func (m DiveModel) renderCanvas(v session.View, w, h int) string {
	c := newCanvas(w, h, diveCandidateStyle, diveConceptStyle, diveFocusStyle, diveCrosshairStyle)
	cx, cy := w/2, h/2
	c.put(cx, cy, "+", slotCrosshair)

	for i, n := range v.Candidates {
		if i >= len(v.Positions) {
			break
		}
		x, y, ok := m.cfg.Layout.Project(v.Look, v.Positions[i], w, h, v.Physics.Zoom)
		if !ok {
			continue
		}
		label := n.Display()
		slot := slotCandidate
		switch {
		case i == v.Focused:
			slot = slotFocus
			label = "[" + label + "]"
		case n.IsConcept():
			slot = slotConcept
		}
		c.put(x-runewidth.StringWidth(label)/2, y, label, slot)
	}
	return c.String()
}

func (m DiveModel) renderPanel(v session.View) string {
	var b strings.Builder

	if v.Focused >= 0 && v.Focused < len(v.Candidates) {
		n := v.Candidates[v.Focused]
		if glyph := m.glyphs.Render(n.Display(), glyphCols, glyphRows); glyph != "" {
			b.WriteString(diveGlyphStyle.Render(glyph))
		} else {
			b.WriteString(diveLabelBoxStyle.Width(glyphCols).Render(n.Display()))
		}
		b.WriteString("\n")
		if n.IsConcept() {
			b.WriteString(diveMutedStyle.Render(n.Label))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(diveMutedStyle.Render(strings.Repeat("\n", glyphRows/2) + "  (nothing in sight)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(diveBarStyle.Render(m.bar(v.Physics.Magnetism)))
	if m.feedback.flashing() {
		b.WriteString(" " + pulseMarks[m.feedback.pulse])
	}
	b.WriteString("\n")
	b.WriteString(diveMutedStyle.Render(fmt.Sprintf("speed %.2f  zoom %.2f", math.Hypot(v.Physics.Velocity.X, v.Physics.Velocity.Y), v.Physics.Zoom)))
	b.WriteString("\n\n")

	b.WriteString(divePrefixStyle.Render("Predictions"))
	b.WriteString("\n")
	if len(v.Predictions) == 0 {
		b.WriteString(diveMutedStyle.Render("  -"))
		b.WriteString("\n")
	}
	for i, p := range v.Predictions {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, runewidth.Truncate(p, panelWidth-6, "…")))
	}

	if len(m.feedback.events) > 0 {
		b.WriteString("\n")
		b.WriteString(divePrefixStyle.Render("Recent"))
		b.WriteString("\n")
		for i := len(m.feedback.events) - 1; i >= 0; i-- {
			b.WriteString(diveMutedStyle.Render("  " + describeEvent(m.feedback.events[i])))
			b.WriteString("\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(copiedStyle.Render(m.status))
	}
	return lipgloss.NewStyle().Width(panelWidth).Render(b.String())
}

// bar draws progress towards the selection threshold.
func (m DiveModel) bar(magnetism float64) string {
	frac := 0.0
	if t := m.cfg.Physics.SelectionThreshold; t > 0 {
		frac = math.Min(magnetism/t, 1)
	}
	n := int(math.Round(frac * barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func describeEvent(e session.Event) string {
	switch e.Kind {
	case session.EventSelect, session.EventConcept:
		return e.Kind.String() + " " + e.Symbol
	case session.EventAccept:
		return "accept " + e.Word
	default:
		return e.Kind.String()
	}
}
