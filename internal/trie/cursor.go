package trie

import "strings"

// Cursor tracks the position of the word being composed and the last
// committed word used for bigram context. It does not own the trie.
type Cursor struct {
	trie       *Trie
	node       *Node
	prefix     string
	previous   string
	maxVisible int
}

// NewCursor creates a cursor at the root of t presenting at most maxVisible
// candidates.
func NewCursor(t *Trie, maxVisible int) *Cursor {
	return &Cursor{
		trie:       t,
		node:       t.Root(),
		maxVisible: maxVisible,
	}
}

// CurrentNodes is the candidate set to present for the current position.
func (c *Cursor) CurrentNodes() []*Node {
	if c.prefix == "" {
		return c.trie.TopRootChildren(c.maxVisible)
	}
	return c.trie.Predictions(c.prefix, c.maxVisible, c.previous)
}

// Advance appends symbol to the prefix and steps into the matching child.
// Without a matching child the prefix still grows and the node stays put;
// Reset recovers from that state.
func (c *Cursor) Advance(symbol string) {
	symbol = strings.ToLower(symbol)
	c.prefix += symbol
	if child, ok := c.node.Child(symbol); ok {
		c.node = child
	}
}

// AdvanceConcept steps into the concept child with the given label. The
// prefix is left untouched.
func (c *Cursor) AdvanceConcept(label string) bool {
	child, ok := c.node.Child(label)
	if !ok || child.Kind != KindConcept {
		return false
	}
	c.node = child
	return true
}

// IsEndOfWord reports whether the cursor's node completes a word.
func (c *Cursor) IsEndOfWord() bool { return c.node.Kind == KindWordEnd }

// CurrentWord is the word completed at the cursor's node, if any.
func (c *Cursor) CurrentWord() string { return c.node.Word }

// TopPrediction returns the most frequent word reachable from the cursor.
func (c *Cursor) TopPrediction() (string, bool) {
	words := c.TopPredictions(1)
	if len(words) == 0 {
		return "", false
	}
	return words[0], true
}

// TopPredictions returns up to n reachable words, most frequent first.
func (c *Cursor) TopPredictions(n int) []string {
	ranked := c.node.ReachableWords(n)
	out := make([]string, len(ranked))
	for i, w := range ranked {
		out[i] = w.Word
	}
	return out
}

// Reset rewinds to the root. A non-empty completed word is recorded as a
// bigram after the previous word and becomes the new context.
func (c *Cursor) Reset(completed string) {
	if completed != "" {
		completed = strings.ToLower(completed)
		if c.previous != "" {
			c.trie.RecordBigram(c.previous, completed)
		}
		c.previous = completed
	}
	c.node = c.trie.Root()
	c.prefix = ""
}

// FullReset rewinds and also drops the bigram context.
func (c *Cursor) FullReset() {
	c.Reset("")
	c.previous = ""
}

// SetTrie moves the cursor onto a rebuilt trie. The in-progress word is
// dropped; the bigram context is kept.
func (c *Cursor) SetTrie(t *Trie) {
	c.trie = t
	c.node = t.Root()
	c.prefix = ""
}

// Trie returns the trie the cursor reads.
func (c *Cursor) Trie() *Trie { return c.trie }

// Node returns the cursor's current node.
func (c *Cursor) Node() *Node { return c.node }

// Prefix returns the characters typed so far in the current word.
func (c *Cursor) Prefix() string { return c.prefix }

// PreviousWord returns the last committed word, or "".
func (c *Cursor) PreviousWord() string { return c.previous }

// MaxVisible returns the candidate limit.
func (c *Cursor) MaxVisible() int { return c.maxVisible }
