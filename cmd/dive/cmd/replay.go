package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/session"
	"github.com/f3rmion/dive/internal/store"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace>",
	Short: "Run a recorded pointer trace without a terminal UI",
	Long: `Run a recorded pointer trace through a fresh session and print what it
wrote. Traces are YAML or JSON:

  frame_ms: 16        # frame cadence between samples
  aim: [0, 0, 1]      # optional per-frame focus, replacing the hit test
  samples:
    - {t: 0,    type: down, x: 100, y: 100}
    - {t: 2000, type: up,   x: 100, y: 100}

Times are milliseconds from the start of the trace.

Example:
  dive replay session.yaml
  dive replay session.json --tail 2s --learn`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Duration("tail", time.Second, "keep running frames this long after the last sample")
	replayCmd.Flags().Bool("learn", false, "store what the replay taught")
	replayCmd.Flags().Bool("fresh", false, "ignore stored boosts and bigrams")
}

// loadTrace reads a YAML or JSON trace, chosen by extension.
func loadTrace(path string) (dive.Trace, error) {
	var tr dive.Trace
	raw, err := os.ReadFile(path)
	if err != nil {
		return tr, fmt.Errorf("reading trace: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &tr)
	default:
		err = yaml.Unmarshal(raw, &tr)
	}
	if err != nil {
		return tr, fmt.Errorf("parsing trace %s: %w", path, err)
	}
	return tr, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	tail, _ := cmd.Flags().GetDuration("tail")
	learn, _ := cmd.Flags().GetBool("learn")
	fresh, _ := cmd.Flags().GetBool("fresh")

	trace, err := loadTrace(args[0])
	if err != nil {
		return err
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

	var st *store.Store
	if !fresh || learn {
		if st, err = store.Open(s.Paths.Database); err != nil {
			return err
		}
		defer st.Close()
	}
	ctx := cmd.Context()
	if !fresh {
		if err := loadUserData(ctx, st, t); err != nil {
			return err
		}
	}

	res, err := session.Replay(t, s.Session(), trace, tail, session.WithLogger(log))
	if err != nil {
		return err
	}
	printReplay(cmd.OutOrStdout(), res)

	if learn {
		if err := st.Save(ctx, store.UserData{Boosts: t.ExportUserData(), Bigrams: t.ExportBigramData()}); err != nil {
			return fmt.Errorf("saving user data: %w", err)
		}
	}
	return nil
}

func printReplay(w io.Writer, res session.ReplayResult) {
	for _, e := range res.Events {
		line := fmt.Sprintf("%7dms  %-7s", e.At.Milliseconds(), e.Event.Kind)
		switch e.Event.Kind {
		case session.EventSelect, session.EventConcept:
			line += " " + e.Event.Symbol
		case session.EventAccept:
			line += " " + e.Event.Word
		}
		fmt.Fprintln(w, line)
	}
	if len(res.Events) == 0 {
		fmt.Fprintln(w, "(no events)")
	}

	swipes := make([]string, len(res.Swipes))
	for i, sw := range res.Swipes {
		swipes[i] = sw.String()
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Frames: %d\n", res.Frames)
	if len(swipes) > 0 {
		fmt.Fprintf(w, "Swipes: %s\n", strings.Join(swipes, ", "))
	}
	fmt.Fprintf(w, "Text:   %q\n", res.Text)
	if res.Prefix != "" {
		fmt.Fprintf(w, "Prefix: %q\n", res.Prefix)
	}
}
