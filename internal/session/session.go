// Package session runs one dive input session: it owns the cursor, the
// physics engine and the gesture classifier, and turns their decisions into
// composed text.
package session

import (
	"log/slog"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/gesture"
	"github.com/f3rmion/dive/internal/layout"
	"github.com/f3rmion/dive/internal/logging"
	"github.com/f3rmion/dive/internal/physics"
	"github.com/f3rmion/dive/internal/trie"
)

// Config holds the tuning for a session.
type Config struct {
	MaxVisible     int
	TopPredictions int
	Physics        physics.Tuning
	Gesture        gesture.Thresholds
	Layout         layout.Sphere
}

// DefaultConfig returns the stock session tuning.
func DefaultConfig() Config {
	return Config{
		MaxVisible:     8,
		TopPredictions: 5,
		Physics:        physics.DefaultTuning(),
		Gesture:        gesture.DefaultThresholds(),
		Layout:         layout.DefaultSphere(),
	}
}

// EventKind identifies what a session event did to the text.
type EventKind int

const (
	EventSelect  EventKind = iota // A letter was appended to the prefix
	EventConcept                  // A concept was committed
	EventAccept                   // A word was committed by swipe-up
	EventReset                    // The word in progress was discarded
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventConcept:
		return "concept"
	case EventAccept:
		return "accept"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event reports a change to the composed text.
type Event struct {
	Kind   EventKind
	Symbol string // Selected key for select and concept events
	Word   string // Committed word for accept events
	Text   string // Composed text after the event
}

// View is a render snapshot.
type View struct {
	Candidates  []*trie.Node
	Positions   []r3.Vec
	Focused     int
	Physics     physics.State
	Look        r3.Vec
	Prefix      string
	Text        string
	Predictions []string
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	clock   func() time.Time
	haptics gesture.Haptics
	onEvent func(Event)
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock used for gesture timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithHaptics sets the haptic sink.
func WithHaptics(h gesture.Haptics) Option {
	return func(o *options) { o.haptics = h }
}

// WithOnEvent registers a callback for text changes.
func WithOnEvent(fn func(Event)) Option {
	return func(o *options) { o.onEvent = fn }
}

// Session is not safe for concurrent use, except that the trie it reads may
// be replaced with SetTrie between frames.
type Session struct {
	cfg     Config
	log     *slog.Logger
	onEvent func(Event)

	trie     *trie.Trie
	cursor   *trie.Cursor
	physics  *physics.Physics
	gestures *gesture.Classifier

	candidates []*trie.Node
	positions  []r3.Vec
	text       strings.Builder
}

// New creates a session reading t.
func New(t *trie.Trie, cfg Config, opts ...Option) *Session {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	s := &Session{
		cfg:     cfg,
		log:     o.logger,
		onEvent: o.onEvent,
		trie:    t,
		cursor:  trie.NewCursor(t, cfg.MaxVisible),
		physics: physics.New(cfg.Physics),
	}
	gopts := []gesture.Option{
		gesture.WithClock(o.clock),
		gesture.WithThresholds(cfg.Gesture),
		gesture.WithOnSelect(s.selectKey),
		gesture.WithOnAccept(s.acceptWord),
		gesture.WithOnReset(s.resetWord),
	}
	if o.haptics != nil {
		gopts = append(gopts, gesture.WithHaptics(o.haptics))
	}
	s.gestures = gesture.New(s.physics, gopts...)
	s.refresh()
	return s
}

// Start begins a new input session: text, context and camera are cleared.
func (s *Session) Start() {
	s.cursor.FullReset()
	s.physics.FullReset()
	s.text.Reset()
	s.refresh()
}

// Frame advances the session by dt seconds, resolving focus with the
// layout hit test against the look direction the frame starts from.
func (s *Session) Frame(dt float64) {
	focus := s.cfg.Layout.HitTest(s.physics.LookDirection(), s.positions)
	s.step(dt, focus)
}

// FrameAt advances the session with focus supplied by an external hit test.
// Out-of-range indices clear focus.
func (s *Session) FrameAt(dt float64, focus int) {
	if focus >= len(s.candidates) {
		focus = physics.NoFocus
	}
	s.step(dt, focus)
}

// step retargets physics before integrating, so commitment built on one
// candidate never carries into a selection of another.
func (s *Session) step(dt float64, focus int) {
	if focus < 0 {
		focus = physics.NoFocus
	}
	s.physics.SetFocusedNode(focus)
	s.physics.Update(dt)
	if s.physics.ShouldSelect() {
		s.gestures.NotifyNodeSelected(s.candidates[focus].Key())
		s.physics.Reset()
	}
	s.gestures.Poll()
}

// PointerDown starts a gesture.
func (s *Session) PointerDown(x, y float64) { s.gestures.OnTouchDown(x, y) }

// PointerMove steers.
func (s *Session) PointerMove(x, y float64) { s.gestures.OnTouchMove(x, y) }

// PointerUp ends a gesture and reports the swipe it made, if any.
func (s *Session) PointerUp(x, y float64) dive.Swipe { return s.gestures.OnTouchUp(x, y) }

// PointerCancel abandons a gesture.
func (s *Session) PointerCancel() { s.gestures.OnTouchCancel() }

// Handle feeds a recorded sample.
func (s *Session) Handle(sample dive.PointerSample) dive.Swipe {
	return s.gestures.Handle(sample)
}

// SetTrie swaps in a rebuilt trie. The word in progress is dropped.
func (s *Session) SetTrie(t *trie.Trie) {
	s.trie = t
	s.cursor.SetTrie(t)
	s.physics.Reset()
	s.refresh()
	s.log.Info("trie replaced", "words", t.Size())
}

// Trie returns the trie in use.
func (s *Session) Trie() *trie.Trie { return s.trie }

// ExportUserData snapshots the adaptive tables.
func (s *Session) ExportUserData() (map[string]int, map[string]map[string]int) {
	return s.trie.ExportUserData(), s.trie.ExportBigramData()
}

// ImportUserData restores the adaptive tables, replacing what is there.
func (s *Session) ImportUserData(boosts map[string]int, bigrams map[string]map[string]int) {
	s.trie.ImportUserData(boosts)
	s.trie.ImportBigramData(bigrams)
	s.refresh()
}

// Text returns the committed text.
func (s *Session) Text() string { return s.text.String() }

// Prefix returns the word in progress.
func (s *Session) Prefix() string { return s.cursor.Prefix() }

// Candidates returns the candidates presented this frame.
func (s *Session) Candidates() []*trie.Node { return s.candidates }

// View builds a render snapshot.
func (s *Session) View() View {
	return View{
		Candidates:  s.candidates,
		Positions:   s.positions,
		Focused:     s.physics.FocusedIndex(),
		Physics:     s.physics.Snapshot(),
		Look:        s.physics.LookDirection(),
		Prefix:      s.cursor.Prefix(),
		Text:        s.text.String(),
		Predictions: s.cursor.TopPredictions(s.cfg.TopPredictions),
	}
}

func (s *Session) refresh() {
	s.candidates = s.cursor.CurrentNodes()
	s.positions = s.cfg.Layout.Place(len(s.candidates))
}

func (s *Session) selectKey(key string) {
	if child, ok := s.cursor.Node().Child(key); ok && child.IsConcept() {
		s.cursor.AdvanceConcept(key)
		s.text.WriteString(child.Display())
		s.text.WriteByte(' ')
		s.cursor.Reset("")
		s.refresh()
		s.log.Debug("concept committed", "label", key)
		s.emit(Event{Kind: EventConcept, Symbol: key})
		return
	}
	s.cursor.Advance(key)
	s.refresh()
	s.log.Debug("symbol selected", "symbol", key, "prefix", s.cursor.Prefix())
	s.emit(Event{Kind: EventSelect, Symbol: key})
}

func (s *Session) acceptWord() {
	if s.cursor.Prefix() == "" {
		return
	}
	word, ok := s.cursor.TopPrediction()
	if !ok {
		word = s.cursor.CurrentWord()
	}
	if word == "" {
		word = s.cursor.Prefix()
	}
	s.trie.BoostFrequency(word)
	s.cursor.Reset(word)
	s.physics.Reset()
	s.text.WriteString(word)
	s.text.WriteByte(' ')
	s.refresh()
	s.log.Debug("word accepted", "word", word)
	s.emit(Event{Kind: EventAccept, Word: word})
}

func (s *Session) resetWord() {
	s.cursor.Reset("")
	s.physics.Reset()
	s.refresh()
	s.log.Debug("word reset")
	s.emit(Event{Kind: EventReset})
}

func (s *Session) emit(e Event) {
	if s.onEvent == nil {
		return
	}
	e.Text = s.text.String()
	s.onEvent(e)
}
