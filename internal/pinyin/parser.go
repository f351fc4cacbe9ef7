// Package pinyin turns a list of hanzi into concept suites triggered by their
// toneless pinyin, so typing "hao" offers 好 and its homophones.
package pinyin

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"

	"github.com/f3rmion/dive/internal/dive"
)

// Tone is a Mandarin tone number.
type Tone int

const (
	ToneUnknown Tone = iota
	Tone1
	Tone2
	Tone3
	Tone4
	Tone5 // Neutral
)

// Reading is one pronunciation of a character.
type Reading struct {
	Full  string // With tone mark (e.g., "hǎo")
	Plain string // Typable form (e.g., "hao"; ü is written v)
	Tone  Tone
}

// Entry is one line of a hanzi list.
type Entry struct {
	Character string
	Frequency int
}

// Parser converts characters to readings.
type Parser struct {
	args gopinyin.Args
}

// NewParser creates a parser returning every reading of a character.
func NewParser() *Parser {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone
	args.Heteronym = true
	return &Parser{args: args}
}

// Readings returns all readings for a single character.
func (p *Parser) Readings(char string) []Reading {
	result := gopinyin.Pinyin(char, p.args)
	if len(result) == 0 {
		return nil
	}
	var out []Reading
	seen := make(map[string]bool)
	for _, full := range result[0] {
		if seen[full] {
			continue
		}
		seen[full] = true
		tone, bare := extractTone(full)
		out = append(out, Reading{
			Full:  full,
			Plain: strings.ReplaceAll(bare, "ü", "v"),
			Tone:  tone,
		})
	}
	return out
}

// Suites groups entries by plain reading. Each character becomes a concept
// labelled with its toned reading and committing the character itself. The
// returned words give every trigger the summed frequency of its characters.
func (p *Parser) Suites(entries []Entry) ([]dive.ConceptSuite, []dive.WordEntry) {
	byTrigger := make(map[string]*dive.ConceptSuite)
	totals := make(map[string]int)
	var order []string

	for _, e := range entries {
		for _, r := range p.Readings(e.Character) {
			suite, ok := byTrigger[r.Plain]
			if !ok {
				suite = &dive.ConceptSuite{Trigger: r.Plain}
				byTrigger[r.Plain] = suite
				order = append(order, r.Plain)
			}
			suite.Concepts = append(suite.Concepts, dive.Concept{
				Label:     e.Character + " " + r.Full,
				Emoji:     e.Character,
				Icon:      "tone" + strconv.Itoa(int(r.Tone)),
				Frequency: e.Frequency,
			})
			totals[r.Plain] += e.Frequency
		}
	}

	suites := make([]dive.ConceptSuite, 0, len(order))
	words := make([]dive.WordEntry, 0, len(order))
	for _, trigger := range order {
		s := byTrigger[trigger]
		sort.SliceStable(s.Concepts, func(i, j int) bool {
			return s.Concepts[i].Frequency > s.Concepts[j].Frequency
		})
		suites = append(suites, *s)
		words = append(words, dive.WordEntry{Word: trigger, Frequency: totals[trigger]})
	}
	return suites, words
}

// ReadList parses lines of "character [frequency]". Blank lines and lines
// starting with # are ignored; the frequency defaults to 1.
func ReadList(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		char := fields[0]
		if !isHan(char) {
			return nil, fmt.Errorf("line %d: %q is not a single hanzi", lineNum, char)
		}
		freq := 1
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid frequency %q", lineNum, fields[1])
			}
			freq = n
		}
		entries = append(entries, Entry{Character: char, Frequency: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hanzi list: %w", err)
	}
	return entries, nil
}

// LoadList reads a hanzi list from a file.
func LoadList(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hanzi list: %w", err)
	}
	defer f.Close()
	return ReadList(f)
}

func isHan(s string) bool {
	runes := []rune(s)
	return len(runes) == 1 && unicode.Is(unicode.Han, runes[0])
}

var toneMarks = map[rune]struct {
	base rune
	tone Tone
}{
	'ā': {'a', Tone1}, 'á': {'a', Tone2}, 'ǎ': {'a', Tone3}, 'à': {'a', Tone4},
	'ē': {'e', Tone1}, 'é': {'e', Tone2}, 'ě': {'e', Tone3}, 'è': {'e', Tone4},
	'ī': {'i', Tone1}, 'í': {'i', Tone2}, 'ǐ': {'i', Tone3}, 'ì': {'i', Tone4},
	'ō': {'o', Tone1}, 'ó': {'o', Tone2}, 'ǒ': {'o', Tone3}, 'ò': {'o', Tone4},
	'ū': {'u', Tone1}, 'ú': {'u', Tone2}, 'ǔ': {'u', Tone3}, 'ù': {'u', Tone4},
	'ǖ': {'ü', Tone1}, 'ǘ': {'ü', Tone2}, 'ǚ': {'ü', Tone3}, 'ǜ': {'ü', Tone4},
}

// extractTone returns the tone number and the pinyin without tone marks.
// Unmarked syllables are neutral.
func extractTone(pinyin string) (Tone, string) {
	tone := ToneUnknown
	var b strings.Builder
	for _, r := range pinyin {
		if mark, ok := toneMarks[r]; ok {
			b.WriteRune(mark.base)
			tone = mark.tone
		} else {
			b.WriteRune(r)
		}
	}
	if tone == ToneUnknown {
		tone = Tone5
	}
	return tone, b.String()
}
