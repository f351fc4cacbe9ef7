// Package gesture classifies pointer input into live steering and discrete
// vertical swipes, and relays zoom-threshold selections from the render loop.
package gesture

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/f3rmion/dive/internal/dive"
)

// Steering receives every pointer sample regardless of classification.
// *physics.Physics satisfies it.
type Steering interface {
	OnTouchDown(x, y float64)
	OnTouchMove(x, y float64)
	OnTouchUp()
}

// Pattern names a haptic effect.
type Pattern int

const (
	PatternSelect Pattern = iota
	PatternAccept
	PatternReset
)

// Haptics plays feedback for classified events.
type Haptics interface {
	Pulse(p Pattern)
}

// Thresholds control swipe classification.
type Thresholds struct {
	MaxSwipeTime     time.Duration `yaml:"max_swipe_time"`     // Release window for a swipe
	DisqualifyAfter  time.Duration `yaml:"disqualify_after"`   // Moving past this age turns the gesture into steering
	MinSwipeDistance float64       `yaml:"min_swipe_distance"` // Pixels
	DirectionRatio   float64       `yaml:"direction_ratio"`    // Required |dy|/|dx|
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxSwipeTime:     300 * time.Millisecond,
		DisqualifyAfter:  600 * time.Millisecond,
		MinSwipeDistance: 100,
		DirectionRatio:   1.5,
	}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock replaces time.Now for gesture timing.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithHaptics sets the haptic sink.
func WithHaptics(h Haptics) Option {
	return func(c *Classifier) { c.haptics = h }
}

// WithOnAccept sets the swipe-up callback.
func WithOnAccept(fn func()) Option {
	return func(c *Classifier) { c.onAccept = fn }
}

// WithOnReset sets the swipe-down callback.
func WithOnReset(fn func()) Option {
	return func(c *Classifier) { c.onReset = fn }
}

// WithOnSelect sets the callback receiving drained selections.
func WithOnSelect(fn func(symbol string)) Option {
	return func(c *Classifier) { c.onSelect = fn }
}

// WithThresholds replaces the default thresholds.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) { c.thresholds = t }
}

// Classifier is driven from the input loop. NotifyNodeSelected may be called
// from another goroutine; everything else is single-threaded.
type Classifier struct {
	steer      Steering
	haptics    Haptics
	now        func() time.Time
	thresholds Thresholds

	onAccept func()
	onReset  func()
	onSelect func(string)

	candidate      bool
	startX, startY float64
	startAt        time.Time

	// Single-slot mailbox, last write wins.
	pending atomic.Pointer[string]
}

// New creates a classifier forwarding steering to steer.
func New(steer Steering, opts ...Option) *Classifier {
	c := &Classifier{
		steer:      steer,
		now:        time.Now,
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the thresholds in use.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// OnTouchDown starts a gesture that may become a swipe.
func (c *Classifier) OnTouchDown(x, y float64) {
	c.startX, c.startY = x, y
	c.startAt = c.now()
	c.candidate = true
	c.steer.OnTouchDown(x, y)
}

// OnTouchMove steers and drains any pending selection. A gesture older than
// DisqualifyAfter stops being a swipe candidate for the rest of its life.
func (c *Classifier) OnTouchMove(x, y float64) {
	c.steer.OnTouchMove(x, y)
	if c.candidate && c.now().Sub(c.startAt) > c.thresholds.DisqualifyAfter {
		c.candidate = false
	}
	c.drain()
}

// OnTouchUp ends the gesture and returns the swipe it was classified as.
// When it is not a swipe any pending selection is drained instead.
func (c *Classifier) OnTouchUp(x, y float64) dive.Swipe {
	c.steer.OnTouchUp()

	swipe := dive.SwipeNone
	if c.candidate && c.now().Sub(c.startAt) <= c.thresholds.MaxSwipeTime {
		swipe = c.classify(x-c.startX, y-c.startY)
	}
	c.candidate = false

	switch swipe {
	case dive.SwipeUp:
		c.pulse(PatternAccept)
		if c.onAccept != nil {
			c.onAccept()
		}
	case dive.SwipeDown:
		c.pulse(PatternReset)
		if c.onReset != nil {
			c.onReset()
		}
	default:
		c.drain()
	}
	return swipe
}

// OnTouchCancel abandons the gesture without classifying it.
func (c *Classifier) OnTouchCancel() {
	c.steer.OnTouchUp()
	c.candidate = false
	c.startX, c.startY = 0, 0
}

// Handle dispatches a recorded sample. It returns the swipe for up samples.
func (c *Classifier) Handle(s dive.PointerSample) dive.Swipe {
	switch s.Action {
	case dive.PointerDown:
		c.OnTouchDown(s.X, s.Y)
	case dive.PointerMove:
		c.OnTouchMove(s.X, s.Y)
	case dive.PointerUp:
		return c.OnTouchUp(s.X, s.Y)
	case dive.PointerCancel:
		c.OnTouchCancel()
	}
	return dive.SwipeNone
}

// NotifyNodeSelected posts a selection for delivery on the next drain. A
// second call before the drain replaces the first.
func (c *Classifier) NotifyNodeSelected(symbol string) {
	c.pending.Store(&symbol)
}

// Poll drains the mailbox. The render loop calls it once per frame so a
// selection is delivered even without further pointer events.
func (c *Classifier) Poll() bool {
	return c.drain()
}

// IsSwipeCandidate reports whether the active gesture can still be a swipe.
func (c *Classifier) IsSwipeCandidate() bool { return c.candidate }

func (c *Classifier) classify(dx, dy float64) dive.Swipe {
	ady := math.Abs(dy)
	if ady < c.thresholds.MinSwipeDistance || ady <= math.Abs(dx)*c.thresholds.DirectionRatio {
		return dive.SwipeNone
	}
	if dy < 0 {
		return dive.SwipeUp
	}
	return dive.SwipeDown
}

func (c *Classifier) drain() bool {
	symbol := c.pending.Swap(nil)
	if symbol == nil {
		return false
	}
	c.pulse(PatternSelect)
	if c.onSelect != nil {
		c.onSelect(*symbol)
	}
	return true
}

func (c *Classifier) pulse(p Pattern) {
	if c.haptics != nil {
		c.haptics.Pulse(p)
	}
}
