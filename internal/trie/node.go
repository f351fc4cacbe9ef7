// Package trie implements the hybrid prediction tree: literal letters,
// word-completion markers and concept branches share one prefix tree whose
// candidates are ranked by corpus frequency, user reinforcement and bigram
// context.
package trie

import "sort"

// Kind is the role a node plays in the tree.
type Kind int

const (
	KindRoot Kind = iota
	KindLetter
	KindWordEnd
	KindConcept
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLetter:
		return "letter"
	case KindWordEnd:
		return "word_end"
	case KindConcept:
		return "concept"
	default:
		return "unknown"
	}
}

// Node is one node of the tree. A parent owns its children exclusively;
// there are no back pointers because every traversal runs root to leaf.
type Node struct {
	Symbol    string // Literal character; empty for the root and concepts
	Kind      Kind
	Frequency int
	Word      string // Set iff Kind == KindWordEnd

	// Concept-only fields.
	Label string
	Icon  string
	Emoji string

	children []*Node
	index    map[string]int
	subtree  int // Frequency plus every descendant's Frequency
}

func newNode(kind Kind, symbol string) *Node {
	return &Node{Kind: kind, Symbol: symbol}
}

// Key returns the key this node is stored under in its parent.
func (n *Node) Key() string {
	if n.Kind == KindConcept {
		return n.Label
	}
	return n.Symbol
}

// Display returns the text a front end should draw for the node.
func (n *Node) Display() string {
	if n.Kind == KindConcept {
		if n.Emoji != "" {
			return n.Emoji
		}
		return n.Label
	}
	return n.Symbol
}

// IsWordEnd reports whether a word completes at this node.
func (n *Node) IsWordEnd() bool { return n.Kind == KindWordEnd }

// IsConcept reports whether the node is a concept branch.
func (n *Node) IsConcept() bool { return n.Kind == KindConcept }

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// Children returns the children in insertion order. The slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// SubtreeFrequency is the node's own frequency plus the frequency of every
// descendant, boosts and bigrams excluded.
func (n *Node) SubtreeFrequency() int { return n.subtree }

func (n *Node) addChild(key string, c *Node) {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[key] = len(n.children)
	n.children = append(n.children, c)
	n.subtree += c.subtree
}

// WordRank is a reachable completed word and its corpus frequency.
type WordRank struct {
	Word      string
	Frequency int
}

// ReachableWords collects the completed words at or below n, skipping
// concept subtrees, ranked by frequency descending. Collection stops once
// twice the requested count has been found, so the ranking is local to what
// the depth-first walk reached first.
func (n *Node) ReachableWords(limit int) []WordRank {
	if limit <= 0 {
		return nil
	}
	found := make([]WordRank, 0, limit*2)
	n.collectWords(&found, limit*2)

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Frequency > found[j].Frequency
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found
}

func (n *Node) collectWords(found *[]WordRank, budget int) {
	if len(*found) >= budget || n.Kind == KindConcept {
		return
	}
	if n.Kind == KindWordEnd && n.Word != "" {
		*found = append(*found, WordRank{Word: n.Word, Frequency: n.Frequency})
	}
	for _, c := range n.children {
		if len(*found) >= budget {
			return
		}
		c.collectWords(found, budget)
	}
}
