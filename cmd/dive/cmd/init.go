package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/dive/internal/config"
	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/dive"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dive configuration",
	Long: `Initialize dive configuration files in your config directory.

This creates:
  - settings.yaml     (tuning for prediction, physics, gestures and the UI)
  - dictionary.jsonl  (a starter word list, one {"word","frequency"} per line)
  - concepts.yaml     (starter concept suites offered after trigger words)

Replace the word list with your own corpus for useful predictions.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	out := cmd.OutOrStdout()

	settingsPath := filepath.Join(configDir, config.SettingsFile)
	if _, err := os.Stat(settingsPath); err == nil && !force {
		return fmt.Errorf("configuration already exists: %s\nUse --force to overwrite", settingsPath)
	}
	if err := config.EnsureDir(configDir); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initializing dive configuration in %s\n\n", configDir)

	s := config.Default()
	if err := config.Save(settingsPath, s); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Created %s\n", config.SettingsFile)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{s.Paths.Dictionary, func(w io.Writer) error { return dictionary.WriteWords(w, starterWords) }},
		{s.Paths.Concepts, func(w io.Writer) error { return dictionary.WriteSuites(w, starterSuites) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(configDir, f.name), f.write); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Created %s\n", f.name)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration initialized!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Replace dictionary.jsonl with a word list of your own")
	fmt.Fprintln(out, "  2. Run 'dive predict he' to check the rankings")
	fmt.Fprintln(out, "  3. Run 'dive' to start writing")

	return nil
}

// writeFile creates path and fills it with write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

var starterWords = []dive.WordEntry{
	{Word: "the", Frequency: 500},
	{Word: "to", Frequency: 420},
	{Word: "and", Frequency: 400},
	{Word: "a", Frequency: 380},
	{Word: "i", Frequency: 360},
	{Word: "you", Frequency: 340},
	{Word: "it", Frequency: 300},
	{Word: "is", Frequency: 290},
	{Word: "in", Frequency: 280},
	{Word: "that", Frequency: 260},
	{Word: "of", Frequency: 250},
	{Word: "for", Frequency: 200},
	{Word: "my", Frequency: 180},
	{Word: "me", Frequency: 170},
	{Word: "on", Frequency: 160},
	{Word: "what", Frequency: 150},
	{Word: "we", Frequency: 140},
	{Word: "have", Frequency: 130},
	{Word: "good", Frequency: 120},
	{Word: "hello", Frequency: 110},
	{Word: "help", Frequency: 100},
	{Word: "here", Frequency: 95},
	{Word: "how", Frequency: 90},
	{Word: "yes", Frequency: 85},
	{Word: "no", Frequency: 85},
	{Word: "thank", Frequency: 80},
	{Word: "thanks", Frequency: 70},
	{Word: "please", Frequency: 65},
	{Word: "want", Frequency: 60},
	{Word: "water", Frequency: 55},
	{Word: "food", Frequency: 50},
	{Word: "love", Frequency: 50},
	{Word: "morning", Frequency: 45},
	{Word: "night", Frequency: 45},
	{Word: "home", Frequency: 40},
	{Word: "feel", Frequency: 40},
	{Word: "tired", Frequency: 30},
	{Word: "happy", Frequency: 30},
	{Word: "sorry", Frequency: 25},
	{Word: "later", Frequency: 20},
}

var starterSuites = []dive.ConceptSuite{
	{Trigger: "feel", Concepts: []dive.Concept{
		{Label: "happy", Emoji: "😊", Frequency: 5},
		{Label: "sad", Emoji: "😢", Frequency: 3},
		{Label: "tired", Emoji: "😴", Frequency: 3},
		{Label: "sick", Emoji: "🤒", Frequency: 2},
	}},
	{Trigger: "want", Concepts: []dive.Concept{
		{Label: "water", Emoji: "💧", Frequency: 4},
		{Label: "food", Emoji: "🍽️", Frequency: 4},
		{Label: "sleep", Emoji: "🛏️", Frequency: 2},
	}},
	{Trigger: "love", Concepts: []dive.Concept{
		{Label: "heart", Emoji: "❤️", Frequency: 5},
		{Label: "hug", Emoji: "🤗", Frequency: 3},
	}},
	{Trigger: "thanks", Concepts: []dive.Concept{
		{Label: "thumbs up", Emoji: "👍", Frequency: 4},
		{Label: "pray", Emoji: "🙏", Frequency: 2},
	}},
}
