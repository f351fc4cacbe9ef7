package trie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/dive/internal/dive"
)

// Ranking weights applied on top of the subtree frequency.
const (
	BoostWeight  = 10
	BigramWeight = 5
)

var (
	// ErrEmptyWord is returned when inserting a zero-length word, which would
	// otherwise mark the root itself as a completed word.
	ErrEmptyWord = errors.New("trie: empty word")

	// ErrConceptLabel is returned for concept labels that could collide with
	// literal character keys (empty or single-rune labels).
	ErrConceptLabel = errors.New("trie: concept label must be at least two characters")
)

// Trie owns the root node and the two adaptive tables: user boosts
// (word → count) and bigram counts (previous → next → count).
type Trie struct {
	root    *Node
	boosts  map[string]int
	bigrams map[string]map[string]int
	words   int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{
		root:    newNode(KindRoot, ""),
		boosts:  make(map[string]int),
		bigrams: make(map[string]map[string]int),
	}
}

// Root returns the root node.
func (t *Trie) Root() *Node { return t.root }

// Size returns the number of completed words in the tree.
func (t *Trie) Size() int { return t.words }

// Insert adds word with the given corpus frequency. Re-inserting a word
// overwrites its frequency and keeps existing children, including concept
// suites attached to it.
func (t *Trie) Insert(word string, frequency int) error {
	if word == "" {
		return ErrEmptyWord
	}
	word = strings.ToLower(word)

	path := make([]*Node, 0, utf8.RuneCountInString(word)+1)
	path = append(path, t.root)
	node := t.root
	for _, r := range word {
		key := string(r)
		child, ok := node.Child(key)
		if !ok {
			child = newNode(KindLetter, key)
			node.addChild(key, child)
		}
		path = append(path, child)
		node = child
	}

	if node.Kind != KindWordEnd {
		t.words++
	}
	delta := frequency - node.Frequency
	node.Kind = KindWordEnd
	node.Word = word
	node.Frequency = frequency
	for _, n := range path {
		n.subtree += delta
	}
	return nil
}

// InsertConceptSuite makes sure trigger exists as a word and attaches each
// concept under it, keyed by label. Labels are validated before anything is
// changed.
func (t *Trie) InsertConceptSuite(trigger string, concepts []dive.Concept) error {
	for _, c := range concepts {
		if utf8.RuneCountInString(c.Label) < 2 {
			return fmt.Errorf("concept %q under %q: %w", c.Label, trigger, ErrConceptLabel)
		}
	}

	node, ok := t.FindNode(trigger)
	if !ok || node.Kind != KindWordEnd {
		if err := t.Insert(trigger, 0); err != nil {
			return err
		}
	}

	path := t.path(trigger)
	node = path[len(path)-1]
	for _, c := range concepts {
		child, ok := node.Child(c.Label)
		if !ok {
			child = newNode(KindConcept, "")
			child.Label = c.Label
			node.addChild(c.Label, child)
		}
		delta := c.Frequency - child.Frequency
		child.Frequency = c.Frequency
		child.Emoji = c.Emoji
		child.Icon = c.Icon
		child.subtree += delta
		for _, n := range path {
			n.subtree += delta
		}
	}
	return nil
}

// path returns root..node for an existing prefix.
func (t *Trie) path(prefix string) []*Node {
	path := []*Node{t.root}
	node := t.root
	for _, r := range strings.ToLower(prefix) {
		child, ok := node.Child(string(r))
		if !ok {
			return path
		}
		path = append(path, child)
		node = child
	}
	return path
}

// FindNode walks prefix case-insensitively. It reports false as soon as a
// character is missing. The empty prefix finds the root.
func (t *Trie) FindNode(prefix string) (*Node, bool) {
	node := t.root
	for _, r := range strings.ToLower(prefix) {
		child, ok := node.Child(string(r))
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Score is the ranking score of a candidate given the previous word.
func (t *Trie) Score(n *Node, previous string) int {
	score := n.subtree
	if n.Kind == KindWordEnd && n.Word != "" {
		score += BoostWeight * t.boosts[n.Word]
		score += BigramWeight * t.BigramCount(previous, n.Word)
	}
	return score
}

// Predictions returns the children of the prefix node ranked by Score. An
// unknown prefix falls back to TopRootChildren.
func (t *Trie) Predictions(prefix string, max int, previous string) []*Node {
	node, ok := t.FindNode(prefix)
	if !ok {
		return t.TopRootChildren(max)
	}
	if max <= 0 {
		return nil
	}

	type scored struct {
		node  *Node
		score int
	}
	ranked := make([]scored, len(node.children))
	for i, c := range node.children {
		ranked[i] = scored{node: c, score: t.Score(c, previous)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]*Node, len(ranked))
	for i, s := range ranked {
		out[i] = s.node
	}
	return out
}

// TopRootChildren ranks the root's children by subtree frequency alone.
func (t *Trie) TopRootChildren(max int) []*Node {
	if max <= 0 {
		return nil
	}
	out := t.root.Children()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].subtree > out[j].subtree
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// BoostFrequency reinforces word by one. The counter exists independently
// of trie membership.
func (t *Trie) BoostFrequency(word string) {
	t.boosts[strings.ToLower(word)]++
}

// Boost returns the reinforcement count for word.
func (t *Trie) Boost(word string) int {
	return t.boosts[strings.ToLower(word)]
}

// RecordBigram counts current following previous.
func (t *Trie) RecordBigram(previous, current string) {
	next, ok := t.bigrams[previous]
	if !ok {
		next = make(map[string]int)
		t.bigrams[previous] = next
	}
	next[current]++
}

// BigramCount returns how often next followed previous.
func (t *Trie) BigramCount(previous, next string) int {
	if previous == "" {
		return 0
	}
	return t.bigrams[previous][next]
}

// ExportUserData returns a copy of the boost table.
func (t *Trie) ExportUserData() map[string]int {
	out := make(map[string]int, len(t.boosts))
	for k, v := range t.boosts {
		out[k] = v
	}
	return out
}

// ImportUserData replaces the boost table with a copy of data.
func (t *Trie) ImportUserData(data map[string]int) {
	t.boosts = make(map[string]int, len(data))
	for k, v := range data {
		t.boosts[k] = v
	}
}

// ExportBigramData returns a deep copy of the bigram table.
func (t *Trie) ExportBigramData() map[string]map[string]int {
	return copyBigrams(t.bigrams)
}

// ImportBigramData replaces the bigram table with a deep copy of data.
func (t *Trie) ImportBigramData(data map[string]map[string]int) {
	t.bigrams = copyBigrams(data)
}

func copyBigrams(src map[string]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(src))
	for prev, next := range src {
		inner := make(map[string]int, len(next))
		for k, v := range next {
			inner[k] = v
		}
		out[prev] = inner
	}
	return out
}

// Walk visits every node depth-first in insertion order. Returning false
// from fn skips the node's children.
func (t *Trie) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
}
