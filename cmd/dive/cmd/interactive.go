package cmd

import (
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

Views:
  1  Dive        Steer with the mouse (or arrow keys) and dwell to select
  2  Predict     Type a prefix to inspect the ranking behind each candidate
  3  Dictionary  Open a word list, concept file or hanzi list
  4  Settings    Review the active configuration

Controls:
  Drag        Steer
  Swipe up    Accept the top prediction (or press a)
  Swipe down  Discard the word (or press x)
  y           Copy the text
  ?           Help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
