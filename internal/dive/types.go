// Package dive provides the shared types passed between the dive engine and
// its collaborators (feeds, stores, front ends).
package dive

// WordEntry is one (word, frequency) pair from a dictionary feed.
type WordEntry struct {
	Word      string `yaml:"word" json:"word"`
	Frequency int    `yaml:"frequency" json:"frequency"`
}

// Concept is a selectable pictogram attached below a completed word.
type Concept struct {
	Label     string `yaml:"label" json:"label"`                   // Child key and display label (e.g., "thumbs up")
	Emoji     string `yaml:"emoji,omitempty" json:"emoji,omitempty"` // Text committed when the concept is chosen
	Icon      string `yaml:"icon,omitempty" json:"icon,omitempty"`   // Icon reference for front ends that draw one
	Frequency int    `yaml:"frequency" json:"frequency"`
}

// ConceptSuite groups the concepts offered after a trigger word.
type ConceptSuite struct {
	Trigger  string    `yaml:"trigger" json:"trigger"`
	Concepts []Concept `yaml:"concepts" json:"concepts"`
}

// PointerAction is the kind of a raw pointer sample.
type PointerAction string

const (
	PointerDown   PointerAction = "down"
	PointerMove   PointerAction = "move"
	PointerUp     PointerAction = "up"
	PointerCancel PointerAction = "cancel"
)

// PointerSample is one recorded pointer event. At is milliseconds since the
// start of the trace.
type PointerSample struct {
	At     int64         `yaml:"t" json:"t"`
	Action PointerAction `yaml:"type" json:"type"`
	X      float64       `yaml:"x" json:"x"`
	Y      float64       `yaml:"y" json:"y"`
}

// Trace is a recorded pointer session used for headless replay.
type Trace struct {
	// FrameMillis is the frame cadence used between samples (default 16).
	FrameMillis int64 `yaml:"frame_ms,omitempty" json:"frame_ms,omitempty"`
	// Aim lists, per frame, which candidate the external hit test reports.
	// When empty the replay runs its own hit test.
	Aim     []int           `yaml:"aim,omitempty" json:"aim,omitempty"`
	Samples []PointerSample `yaml:"samples" json:"samples"`
}

// Swipe identifies a discrete swipe gesture.
type Swipe int

const (
	SwipeNone  Swipe = iota
	SwipeUp          // Accept the current prediction
	SwipeDown        // Reset the current word
)

func (s Swipe) String() string {
	switch s {
	case SwipeUp:
		return "accept"
	case SwipeDown:
		return "reset"
	default:
		return "none"
	}
}
