package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/f3rmion/dive/internal/store"
	"github.com/f3rmion/dive/internal/trie"
)

var predictCmd = &cobra.Command{
	Use:   "predict [prefix]",
	Short: "Show the ranked candidates after a prefix",
	Long: `Show the candidates the viewer would present after a prefix, in rank
order, with the words reachable through each one.

Scores combine the corpus frequency below a candidate with what you have
taught dive: accepted words are boosted, and words that followed the
previous word before get a bigram bonus.

Example:
  dive predict he
  dive predict mo --previous good
  dive predict --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringP("previous", "p", "", "previous word, for bigram scoring")
	predictCmd.Flags().IntP("max", "n", 0, "candidates to show (default prediction.max_visible)")
	predictCmd.Flags().Bool("json", false, "print JSON")
	predictCmd.Flags().Bool("no-user-data", false, "ignore stored boosts and bigrams")
}

type predictionRow struct {
	Rank    int      `json:"rank"`
	Symbol  string   `json:"symbol"`
	Kind    string   `json:"kind"`
	Score   int      `json:"score"`
	Word    string   `json:"word,omitempty"`
	Boost   int      `json:"boost,omitempty"`
	Bigram  int      `json:"bigram,omitempty"`
	Reaches []string `json:"reaches,omitempty"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	previous, _ := cmd.Flags().GetString("previous")
	limit, _ := cmd.Flags().GetInt("max")
	asJSON, _ := cmd.Flags().GetBool("json")
	noUserData, _ := cmd.Flags().GetBool("no-user-data")

	var prefix string
	if len(args) > 0 {
		prefix = strings.ToLower(args[0])
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(s, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	t, _, err := loadTrie(s, log)
	if err != nil {
		return err
	}
	if !noUserData {
		st, err := store.Open(s.Paths.Database)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := loadUserData(cmd.Context(), st, t); err != nil {
			return err
		}
	}
	if limit <= 0 {
		limit = s.Prediction.MaxVisible
	}

	rows := rankRows(t, prefix, previous, limit)
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	printRows(out, t, prefix, previous, rows)
	return nil
}

func rankRows(t *trie.Trie, prefix, previous string, limit int) []predictionRow {
	nodes := t.Predictions(prefix, limit, previous)
	rows := make([]predictionRow, 0, len(nodes))
	for i, n := range nodes {
		row := predictionRow{
			Rank:   i + 1,
			Symbol: n.Display(),
			Kind:   n.Kind.String(),
			Score:  t.Score(n, previous),
		}
		if n.IsWordEnd() {
			row.Word = n.Word
			row.Boost = t.Boost(n.Word)
			row.Bigram = t.BigramCount(previous, n.Word)
		}
		if !n.IsConcept() {
			for _, w := range n.ReachableWords(3) {
				row.Reaches = append(row.Reaches, w.Word)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func printRows(w io.Writer, t *trie.Trie, prefix, previous string, rows []predictionRow) {
	switch _, known := t.FindNode(prefix); {
	case prefix == "":
		fmt.Fprintln(w, "Candidates at the root")
	case known:
		fmt.Fprintf(w, "Candidates after %q\n", prefix)
	default:
		fmt.Fprintf(w, "Prefix %q is not in the dictionary, showing the root\n", prefix)
	}
	if previous != "" {
		fmt.Fprintf(w, "Previous word: %s\n", previous)
	}
	fmt.Fprintln(w)

	if len(rows) == 0 {
		fmt.Fprintln(w, "  (no candidates)")
		return
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %2d. %-4s %-8s score %d", r.Rank, r.Symbol, r.Kind, r.Score)
		if r.Word != "" {
			line += fmt.Sprintf("  ends %q", r.Word)
			if r.Boost > 0 || r.Bigram > 0 {
				line += fmt.Sprintf(" (boost %d, bigram %d)", r.Boost, r.Bigram)
			}
		}
		if len(r.Reaches) > 0 {
			line += "  → " + strings.Join(r.Reaches, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
