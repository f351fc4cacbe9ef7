package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/dive/internal/config"
	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/trie"
	"github.com/f3rmion/dive/internal/tui/views"
)

func newApp(t *testing.T) AppModel {
	t.Helper()
	tr := trie.New()
	require.NoError(t, tr.Insert("hello", 50))
	require.NoError(t, tr.Insert("hi", 10))

	settings := config.Default()
	settings.Paths.Concepts = ""
	app := NewApp(Options{
		Settings:  settings,
		ConfigDir: t.TempDir(),
		Trie:      tr,
		Stats:     dictionary.Stats{Words: 2},
	})
	next, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel)
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSwitchViews(t *testing.T) {
	m := newApp(t)
	assert.Equal(t, ViewDive, m.CurrentView())

	m, _ = send(m, runes("4"))
	assert.Equal(t, ViewSettings, m.CurrentView())
	assert.Contains(t, m.View(), "Settings")

	m, _ = send(m, ViewSwitchMsg{View: ViewFilePicker})
	assert.Equal(t, ViewFilePicker, m.CurrentView())
	assert.Equal(t, 2, m.selectedMenu)
}

func TestSidebarNavigation(t *testing.T) {
	m := newApp(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.sidebarActive)

	m, _ = send(m, runes("j"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewPredict, m.CurrentView())
	assert.False(t, m.sidebarActive)
}

func TestPredictViewKeepsTypedKeys(t *testing.T) {
	m := newApp(t)
	m, _ = send(m, runes("2"))
	require.Equal(t, ViewPredict, m.CurrentView())

	// Digits and q are text while the query has focus.
	m, _ = send(m, runes("h"))
	m, _ = send(m, runes("1"))
	assert.Equal(t, ViewPredict, m.CurrentView())
	assert.Contains(t, m.View(), `prefix "h1"`)
}

func TestHelpOverlay(t *testing.T) {
	m := newApp(t)
	m, _ = send(m, runes("?"))
	assert.Contains(t, m.View(), "Press any key to close")

	m, _ = send(m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestReloadCarriesUserData(t *testing.T) {
	m := newApp(t)
	old := m.Session().Trie()
	old.BoostFrequency("hello")
	old.RecordBigram("say", "hello")

	fresh := trie.New()
	require.NoError(t, fresh.Insert("hello", 5))
	require.NoError(t, fresh.Insert("world", 5))

	m, _ = send(m, TrieReloadedMsg{Trie: fresh, Stats: dictionary.Stats{Words: 2}})
	assert.Same(t, fresh, m.Session().Trie())
	assert.Equal(t, 1, fresh.Boost("hello"))
	assert.Equal(t, 1, fresh.BigramCount("say", "hello"))
	assert.NoError(t, m.loadErr)
}

func TestReloadFailureKeepsTrie(t *testing.T) {
	m := newApp(t)
	old := m.Session().Trie()

	m, _ = send(m, TrieReloadedMsg{Err: errors.New("broken feed")})
	assert.Same(t, old, m.Session().Trie())
	assert.Contains(t, m.View(), "broken feed")
}

func TestOpenFeed(t *testing.T) {
	m := newApp(t)
	m, _ = send(m, runes("3"))

	_, cmd := send(m, views.FileSelectedMsg{Path: "deck.apkg", Kind: views.FeedUnknown})
	assert.Nil(t, cmd)

	path := filepath.Join(t.TempDir(), "words.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"word":"dive","frequency":3}`+"\n"), 0644))

	m, cmd = send(m, views.FileSelectedMsg{Path: path, Kind: views.FeedWords})
	require.NotNil(t, cmd)
	msg, ok := cmd().(TrieReloadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, path, msg.Sources.Dictionary)

	m, _ = send(m, msg)
	assert.Equal(t, ViewDive, m.CurrentView())
	_, found := m.Session().Trie().FindNode("dive")
	assert.True(t, found)
}

func TestFeedChangedRebuildsCurrentSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"word":"dive","frequency":3}`+"\n"), 0644))

	m := newApp(t)
	m.sources = dictionary.Sources{Dictionary: path}

	_, cmd := send(m, FeedChangedMsg{})
	require.NotNil(t, cmd)
	msg, ok := cmd().(TrieReloadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, path, msg.Sources.Dictionary)
}

func TestRebuild(t *testing.T) {
	msg := Rebuild(dictionary.Sources{}, nil)
	assert.ErrorIs(t, msg.Err, dictionary.ErrNoSources)
}
