package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/dive/internal/store"
	"github.com/f3rmion/dive/internal/trie"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the dictionary and learned data",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// trieShape counts nodes by kind.
type trieShape struct {
	letters, wordEnds, concepts int
	depth                       int
}

func shapeOf(t *trie.Trie) trieShape {
	var sh trieShape
	t.Walk(func(n *trie.Node, depth int) bool {
		switch n.Kind {
		case trie.KindLetter:
			sh.letters++
		case trie.KindWordEnd:
			sh.wordEnds++
		case trie.KindConcept:
			sh.concepts++
		}
		sh.depth = max(sh.depth, depth)
		return true
	})
	return sh
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(s, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	t, stats, err := loadTrie(s, log)
	if err != nil {
		return err
	}
	st, err := store.Open(s.Paths.Database)
	if err != nil {
		return err
	}
	defer st.Close()
	boosts, bigrams, err := st.Counts(cmd.Context())
	if err != nil {
		return err
	}

	sh := shapeOf(t)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config:     %s\n\n", getConfigDir())
	fmt.Fprintln(out, "Dictionary")
	for _, p := range s.Sources().Paths() {
		fmt.Fprintf(out, "  %s\n", p)
	}
	fmt.Fprintf(out, "  Words:    %d (%d skipped)\n", stats.Words, stats.Skipped)
	fmt.Fprintf(out, "  Suites:   %d with %d concepts\n", stats.Suites, stats.Concepts)
	fmt.Fprintf(out, "  Nodes:    %d letters, %d word ends, %d concepts\n", sh.letters, sh.wordEnds, sh.concepts)
	fmt.Fprintf(out, "  Depth:    %d\n", sh.depth)
	fmt.Fprintf(out, "  Corpus:   %d\n\n", t.Root().SubtreeFrequency())
	fmt.Fprintln(out, "Learned")
	fmt.Fprintf(out, "  %s\n", st.Path())
	fmt.Fprintf(out, "  Boosted:  %d words\n", boosts)
	fmt.Fprintf(out, "  Bigrams:  %d\n", bigrams)
	return nil
}
