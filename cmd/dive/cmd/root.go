// Package cmd contains all CLI commands for dive.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/dive/internal/clipboard"
	"github.com/f3rmion/dive/internal/config"
	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/logging"
	"github.com/f3rmion/dive/internal/session"
	"github.com/f3rmion/dive/internal/store"
	"github.com/f3rmion/dive/internal/trie"
	"github.com/f3rmion/dive/internal/tui"
	"github.com/f3rmion/dive/internal/tui/bigchar"
	"github.com/f3rmion/dive/internal/watcher"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dive",
	Short: "Dive - steer through a prediction trie to write without a keyboard",
	Long: `Dive is a gesture text-entry tool. Letters float around you on a sphere;
you steer by dragging, and holding the view on a letter for a moment selects it.

  - Swipe up to accept the top prediction
  - Swipe down to discard the word in progress
  - After certain words, concept suites offer emoji instead of letters

Words you accept are boosted and remembered between sessions.

Running 'dive' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/dive)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output (debug logs on stderr)")
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig resolves the config directory and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("DIVE")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
		return
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
		os.Exit(1)
	}
	// DIVE_CONFIG_DIR still wins over the default.
	viper.SetDefault("config_dir", dir)
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadSettings reads the settings in the config directory and applies the
// command-line overrides.
func loadSettings() (config.Settings, error) {
	s, err := config.LoadDir(getConfigDir())
	if err != nil {
		return s, err
	}
	if level := viper.GetString("log_level"); level != "" {
		s.Logging.Level = level
	}
	if viper.GetBool("verbose") {
		s.Logging.Level = "debug"
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings in %s:\n%w", getConfigDir(), err)
	}
	return s, nil
}

// newLogger builds the logger for a command. The TUI owns the terminal, so
// console output goes to the log file while it runs; --verbose sends other
// commands' logs to stderr.
func newLogger(s config.Settings, interactive bool) (*slog.Logger, io.Closer, error) {
	cfg := s.Logging
	switch {
	case interactive && (cfg.Output == "stderr" || cfg.Output == "stdout"):
		if cfg.File == "" {
			cfg.File = filepath.Join(getConfigDir(), "dive.log")
		}
		cfg.Output = "file"
	case !interactive && viper.GetBool("verbose"):
		cfg.Output = "stderr"
	}
	log, closer, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	return log, closer, nil
}

// loadTrie builds the trie from the configured feeds.
func loadTrie(s config.Settings, log *slog.Logger) (*trie.Trie, dictionary.Stats, error) {
	t, stats, err := dictionary.Build(s.Sources(), log)
	if errors.Is(err, os.ErrNotExist) {
		return nil, stats, fmt.Errorf("loading dictionary: %w\nRun 'dive init' to create a starter dictionary", err)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("loading dictionary: %w", err)
	}
	return t, stats, nil
}

// loadUserData applies the stored boosts and bigrams to t.
func loadUserData(ctx context.Context, st *store.Store, t *trie.Trie) error {
	data, err := st.Load(ctx)
	if err != nil {
		return err
	}
	t.ImportUserData(data.Boosts)
	t.ImportBigramData(data.Bigrams)
	return nil
}

// saveUserData persists what the session learned.
func saveUserData(ctx context.Context, st *store.Store, s *session.Session) error {
	boosts, bigrams := s.ExportUserData()
	return st.Save(ctx, store.UserData{Boosts: boosts, Bigrams: bigrams})
}

// runTUI launches the interactive application.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(s, true)
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
	if err := loadUserData(ctx, st, t); err != nil {
		return err
	}

	glyphs, err := bigchar.Search(s.Paths.Font)
	if err != nil {
		log.Warn("large glyphs disabled", "error", err)
	}

	var clip clipboard.Writer = clipboard.System{}
	if !clipboard.Available() {
		log.Warn("system clipboard unavailable, copies stay in memory")
		clip = &clipboard.Memory{}
	}

	app := tui.NewApp(tui.Options{
		Settings:  s,
		ConfigDir: getConfigDir(),
		Trie:      t,
		Stats:     stats,
		Logger:    log,
		Glyphs:    glyphs,
		Clipboard: clip,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if s.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(app, opts...)

	if s.UI.Watch {
		w, err := watcher.New(s.Sources().Paths(),
			watcher.WithOnChange(func() { p.Send(tui.FeedChangedMsg{}) }),
			watcher.WithOnError(func(err error) { log.Warn("feed watch", "error", err) }),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			log.Warn("dictionary reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	if app, ok := final.(tui.AppModel); ok {
		if err := saveUserData(ctx, st, app.Session()); err != nil {
			return fmt.Errorf("saving user data: %w", err)
		}
		log.Info("user data saved", "path", st.Path())
	}
	return nil
}
