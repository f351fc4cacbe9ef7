// Package dictionary loads the word and concept feeds and builds a
// prediction trie from them.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/logging"
	"github.com/f3rmion/dive/internal/pinyin"
	"github.com/f3rmion/dive/internal/trie"
)

// ErrNoSources is returned by Build when no feed is configured.
var ErrNoSources = errors.New("no dictionary sources configured")

// Sources lists the feed files. Empty paths are skipped.
type Sources struct {
	Dictionary string // JSONL word list
	Concepts   string // YAML concept suites
	Hanzi      string // Hanzi list for pinyin suites
}

// Paths returns the configured, non-empty paths.
func (s Sources) Paths() []string {
	var out []string
	for _, p := range []string{s.Dictionary, s.Concepts, s.Hanzi} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes a build.
type Stats struct {
	Words    int // Distinct words in the trie
	Suites   int
	Concepts int
	Skipped  int // Malformed or rejected feed entries
}

// ReadWords parses a JSONL word feed. Malformed lines, empty words and
// negative frequencies are skipped and counted.
func ReadWords(r io.Reader) ([]dive.WordEntry, int, error) {
	var (
		words   []dive.WordEntry
		skipped int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry dive.WordEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			skipped++
			continue
		}
		if strings.TrimSpace(entry.Word) == "" || entry.Frequency < 0 {
			skipped++
			continue
		}
		words = append(words, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("reading dictionary: %w", err)
	}
	return words, skipped, nil
}

// LoadWords reads a JSONL word feed from a file.
func LoadWords(path string) ([]dive.WordEntry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening dictionary file: %w", err)
	}
	defer f.Close()
	return ReadWords(f)
}

// WriteWords writes entries as JSONL.
func WriteWords(w io.Writer, words []dive.WordEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range words {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding %q: %w", e.Word, err)
		}
	}
	return nil
}

type suiteFile struct {
	Suites []dive.ConceptSuite `yaml:"suites"`
}

// ReadSuites parses a YAML concept-suite feed.
func ReadSuites(r io.Reader) ([]dive.ConceptSuite, error) {
	var f suiteFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing concept suites: %w", err)
	}
	return f.Suites, nil
}

// LoadSuites reads a YAML concept-suite feed from a file.
func LoadSuites(path string) ([]dive.ConceptSuite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening concepts file: %w", err)
	}
	defer f.Close()
	return ReadSuites(f)
}

// WriteSuites writes suites as YAML.
func WriteSuites(w io.Writer, suites []dive.ConceptSuite) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(suiteFile{Suites: suites}); err != nil {
		return fmt.Errorf("encoding concept suites: %w", err)
	}
	return enc.Close()
}

// Build loads every configured feed into a new trie. Words go in first so a
// suite trigger keeps its dictionary frequency.
func Build(src Sources, log *slog.Logger) (*trie.Trie, Stats, error) {
	var stats Stats
	if log == nil {
		log = logging.Discard()
	}
	if len(src.Paths()) == 0 {
		return nil, stats, ErrNoSources
	}

	var (
		words  []dive.WordEntry
		suites []dive.ConceptSuite
	)
	if src.Dictionary != "" {
		w, skipped, err := LoadWords(src.Dictionary)
		if err != nil {
			return nil, stats, err
		}
		words = append(words, w...)
		stats.Skipped += skipped
	}
	if src.Concepts != "" {
		s, err := LoadSuites(src.Concepts)
		if err != nil {
			return nil, stats, err
		}
		suites = append(suites, s...)
	}
	if src.Hanzi != "" {
		entries, err := pinyin.LoadList(src.Hanzi)
		if err != nil {
			return nil, stats, err
		}
		s, w := pinyin.NewParser().Suites(entries)
		suites = append(suites, s...)
		words = append(words, w...)
	}

	t := trie.New()
	for _, e := range words {
		if err := t.Insert(e.Word, e.Frequency); err != nil {
			stats.Skipped++
		}
	}
	for _, s := range suites {
		if err := t.InsertConceptSuite(s.Trigger, s.Concepts); err != nil {
			log.Warn("skipping concept suite", "trigger", s.Trigger, "error", err)
			stats.Skipped++
			continue
		}
		stats.Suites++
		stats.Concepts += len(s.Concepts)
	}
	stats.Words = t.Size()

	log.Info("dictionary built",
		"words", stats.Words,
		"suites", stats.Suites,
		"concepts", stats.Concepts,
		"skipped", stats.Skipped,
	)
	return t, stats, nil
}
