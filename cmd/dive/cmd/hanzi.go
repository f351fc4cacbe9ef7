package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/pinyin"
)

var hanziCmd = &cobra.Command{
	Use:   "hanzi <list>",
	Short: "Convert a hanzi list into pinyin concept suites",
	Long: `Convert a list of Chinese characters into concept suites.

The list has one character per line, optionally followed by a frequency:

  好 120
  中 95

Each toneless pinyin syllable becomes a word in the dictionary, and the
characters read that way become the concepts offered after it, so spelling
"hao" and dwelling shows 好, 号, 毫...

Example:
  dive hanzi chars.txt -o concepts.yaml
  dive hanzi chars.txt -o concepts.yaml --words syllables.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runHanzi,
}

func init() {
	rootCmd.AddCommand(hanziCmd)
	hanziCmd.Flags().StringP("output", "o", "", "output concepts file (default stdout)")
	hanziCmd.Flags().StringP("words", "w", "", "also write the syllables as a JSONL word list")
}

func runHanzi(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	wordsPath, _ := cmd.Flags().GetString("words")

	entries, err := pinyin.LoadList(args[0])
	if err != nil {
		return err
	}
	suites, words := pinyin.NewParser().Suites(entries)

	writeSuites := func(w io.Writer) error { return dictionary.WriteSuites(w, suites) }
	if output == "" {
		if err := writeSuites(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else if err := writeFile(output, writeSuites); err != nil {
		return err
	}

	if wordsPath != "" {
		if err := writeFile(wordsPath, func(w io.Writer) error { return dictionary.WriteWords(w, words) }); err != nil {
			return err
		}
	}

	concepts := 0
	for _, s := range suites {
		concepts += len(s.Concepts)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d characters → %d syllables, %d concepts\n", len(entries), len(suites), concepts)
	return nil
}
