package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)
	assert.False(t, called.Load())
}

func TestDebouncerDefault(t *testing.T) {
	assert.Equal(t, DefaultDebounceDuration, NewDebouncer(0).Duration())
}

func TestNewRequiresPaths(t *testing.T) {
	_, err := New([]string{"", ""})
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestDetectsChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dictionary.jsonl")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("{}\n"), 0644))

	var changes atomic.Int32
	w, err := New([]string{target},
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, changes.Load(), "unrelated files are ignored")

	require.NoError(t, os.WriteFile(target, []byte(`{"word":"a","frequency":1}`+"\n"), 0644))
	require.NoError(t, os.WriteFile(target, []byte(`{"word":"b","frequency":1}`+"\n"), 0644))
	require.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "concepts.yaml")
	w, err := New([]string{target})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
	assert.Equal(t, []string{target}, w.Paths())
}
