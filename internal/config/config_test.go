package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCollectsErrors(t *testing.T) {
	s := Default()
	s.UI.FPS = 0
	s.Prediction.MaxVisible = -1
	s.Gesture.DisqualifyAfter = 100 * time.Millisecond
	s.Logging.Level = "chatty"

	err := s.Validate()
	require.Error(t, err)
	for _, want := range []string{"ui.fps", "prediction.max_visible", "gesture.disqualify_after", "logging"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	s := Default()
	s.Physics.Friction = 2.5
	s.Gesture.MaxSwipeTime = 250 * time.Millisecond
	s.Paths.Hanzi = "hanzi.txt"

	require.NoError(t, Save(path, s))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_swipe_time: 250ms")
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  fps: 30\n"), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, got.UI.FPS)
	assert.Equal(t, Default().Physics, got.Physics)
	assert.True(t, got.UI.Mouse)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dictionary.jsonl"), got.Paths.Dictionary)
	assert.Equal(t, filepath.Join(dir, "dive.log"), got.Logging.File)
	assert.Empty(t, got.Paths.Hanzi)

	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("paths:\n  dictionary: /abs/words.jsonl\n"), 0644))
	got, err = LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "/abs/words.jsonl", got.Paths.Dictionary)

	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("ui: [\n"), 0644))
	_, err = LoadDir(dir)
	assert.ErrorContains(t, err, "parsing settings file")
}

func TestSessionConfig(t *testing.T) {
	s := Default()
	s.Prediction.MaxVisible = 4
	cfg := s.Session()
	assert.Equal(t, 4, cfg.MaxVisible)
	assert.Equal(t, s.Physics, cfg.Physics)
	assert.Equal(t, s.Layout, cfg.Layout)
}
