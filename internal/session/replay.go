package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/trie"
)

// DefaultFrameMillis is the replay frame cadence when a trace names none.
const DefaultFrameMillis = 16

// ErrUnorderedTrace is returned when sample times go backwards.
var ErrUnorderedTrace = errors.New("trace samples out of order")

// ReplayEvent is an event stamped with its trace time.
type ReplayEvent struct {
	At    time.Duration
	Event Event
}

// ReplayResult summarizes a replayed trace.
type ReplayResult struct {
	Events []ReplayEvent
	Swipes []dive.Swipe
	Frames int
	Text   string
	Prefix string
}

// Replay runs trace through a fresh session over t on a virtual clock.
// Frames are stepped between samples; tail extends the run after the last
// sample so a dwell in progress can finish. When the trace carries aim
// indices they replace the hit test, the last one holding once they run
// out.
func Replay(t *trie.Trie, cfg Config, trace dive.Trace, tail time.Duration, opts ...Option) (ReplayResult, error) {
	var res ReplayResult
	for i := 1; i < len(trace.Samples); i++ {
		if trace.Samples[i].At < trace.Samples[i-1].At {
			return res, fmt.Errorf("sample %d at %dms: %w", i, trace.Samples[i].At, ErrUnorderedTrace)
		}
	}

	frameMs := trace.FrameMillis
	if frameMs <= 0 {
		frameMs = DefaultFrameMillis
	}
	step := time.Duration(frameMs) * time.Millisecond

	start := time.Unix(0, 0)
	var now time.Duration
	opts = append(opts,
		WithClock(func() time.Time { return start.Add(now) }),
		WithOnEvent(func(e Event) { res.Events = append(res.Events, ReplayEvent{At: now, Event: e}) }),
	)
	s := New(t, cfg, opts...)

	frame := func() {
		now += step
		if len(trace.Aim) == 0 {
			s.Frame(step.Seconds())
		} else {
			s.FrameAt(step.Seconds(), trace.Aim[min(res.Frames, len(trace.Aim)-1)])
		}
		res.Frames++
	}

	for _, sample := range trace.Samples {
		at := time.Duration(sample.At) * time.Millisecond
		for now+step <= at {
			frame()
		}
		now = max(now, at)
		if sw := s.Handle(sample); sw != dive.SwipeNone {
			res.Swipes = append(res.Swipes, sw)
		}
	}
	for end := now + tail; now+step <= end; {
		frame()
	}

	res.Text = s.Text()
	res.Prefix = s.Prefix()
	return res, nil
}
