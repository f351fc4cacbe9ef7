package trie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/trie"
)

func newCursorTrie(t *testing.T) *trie.Trie {
	t.Helper()
	tr := trie.New()
	for _, e := range []dive.WordEntry{
		{Word: "hello", Frequency: 50},
		{Word: "help", Frequency: 30},
		{Word: "world", Frequency: 40},
		{Word: "word", Frequency: 45},
	} {
		require.NoError(t, tr.Insert(e.Word, e.Frequency))
	}
	require.NoError(t, tr.InsertConceptSuite("help", []dive.Concept{
		{Label: "sos", Emoji: "🆘", Frequency: 2},
	}))
	return tr
}

func TestCursorCurrentNodes(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)

	assert.Equal(t, []string{"w", "h"}, keys(c.CurrentNodes()))

	c.Advance("H")
	c.Advance("e")
	assert.Equal(t, "he", c.Prefix())
	assert.Equal(t, []string{"l"}, keys(c.CurrentNodes()))
	assert.False(t, c.IsEndOfWord())
}

func TestCursorAdvanceToWord(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)
	for _, r := range "help" {
		c.Advance(string(r))
	}
	require.True(t, c.IsEndOfWord())
	assert.Equal(t, "help", c.CurrentWord())
	assert.Equal(t, []string{"sos"}, keys(c.CurrentNodes()))

	require.True(t, c.AdvanceConcept("sos"))
	assert.Equal(t, "help", c.Prefix())
	assert.Equal(t, trie.KindConcept, c.Node().Kind)
	assert.False(t, c.AdvanceConcept("missing"))
}

func TestCursorInvalidAdvanceDesyncs(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)
	c.Advance("h")
	c.Advance("x")

	assert.Equal(t, "hx", c.Prefix())
	assert.Equal(t, "h", c.Node().Symbol)
	// The prefix is unknown so the candidate set falls back to the root.
	assert.Equal(t, keys(tr.TopRootChildren(8)), keys(c.CurrentNodes()))

	c.Reset("")
	assert.Empty(t, c.Prefix())
	assert.Equal(t, trie.KindRoot, c.Node().Kind)
}

func TestCursorTopPredictions(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)
	c.Advance("w")
	c.Advance("o")

	top, ok := c.TopPrediction()
	require.True(t, ok)
	assert.Equal(t, "word", top)
	assert.Equal(t, []string{"word", "world"}, c.TopPredictions(5))

	c.Reset("")
	c.Advance("q")
	// The root node still reaches every word.
	top, ok = c.TopPrediction()
	require.True(t, ok)
	assert.Equal(t, "hello", top)

	assert.False(t, c.AdvanceConcept("nope"))
}

func TestCursorResetRecordsBigram(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)

	c.Reset("Hello")
	assert.Equal(t, "hello", c.PreviousWord())
	assert.Empty(t, tr.ExportBigramData())

	c.Reset("world")
	assert.Equal(t, 1, tr.BigramCount("hello", "world"))
	assert.Equal(t, "world", c.PreviousWord())

	c.FullReset()
	assert.Empty(t, c.PreviousWord())
	c.Reset("help")
	assert.Equal(t, 0, tr.BigramCount("world", "help"))
}

func TestCursorBigramReranks(t *testing.T) {
	tr := trie.New()
	require.NoError(t, tr.Insert("ab", 10))
	require.NoError(t, tr.Insert("ac", 10))
	c := trie.NewCursor(tr, 4)

	c.Reset("x")
	c.Reset("ac")
	c.Reset("x")
	c.Advance("a")
	assert.Equal(t, []string{"c", "b"}, keys(c.CurrentNodes()))
}

func TestCursorResetReachesSameNode(t *testing.T) {
	tr := newCursorTrie(t)
	c := trie.NewCursor(tr, 8)
	for _, r := range "world" {
		c.Advance(string(r))
	}
	before := c.Node()
	c.Reset(c.CurrentWord())
	for _, r := range "world" {
		c.Advance(string(r))
	}
	assert.Same(t, before, c.Node())
}

func TestCursorSetTrie(t *testing.T) {
	c := trie.NewCursor(newCursorTrie(t), 8)
	c.Reset("hello")
	c.Advance("w")

	next := trie.New()
	require.NoError(t, next.Insert("zed", 1))
	c.SetTrie(next)

	assert.Empty(t, c.Prefix())
	assert.Equal(t, "hello", c.PreviousWord())
	assert.Equal(t, []string{"z"}, keys(c.CurrentNodes()))
	assert.Same(t, next, c.Trie())
}
