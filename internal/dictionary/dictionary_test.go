package dictionary_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/dive"
	"github.com/f3rmion/dive/internal/logging"
)

const wordsJSONL = `{"word": "hello", "frequency": 50}
{"word": "help", "frequency": 30}
not json
{"word": "", "frequency": 3}
{"word": "bad", "frequency": -1}

{"word": "Good", "frequency": 20}
`

const suitesYAML = `suites:
  - trigger: good
    concepts:
      - label: thumbs up
        emoji: "👍"
        icon: thumb
        frequency: 5
  - trigger: sunny
    concepts:
      - label: sun
        emoji: "☀️"
        frequency: 2
  - trigger: oops
    concepts:
      - label: x
        frequency: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadWords(t *testing.T) {
	words, skipped, err := dictionary.ReadWords(strings.NewReader(wordsJSONL))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, []dive.WordEntry{
		{Word: "hello", Frequency: 50},
		{Word: "help", Frequency: 30},
		{Word: "Good", Frequency: 20},
	}, words)
}

func TestWordsRoundTrip(t *testing.T) {
	in := []dive.WordEntry{{Word: "a", Frequency: 1}, {Word: "über", Frequency: 7}}
	var buf bytes.Buffer
	require.NoError(t, dictionary.WriteWords(&buf, in))

	out, skipped, err := dictionary.ReadWords(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, in, out)
}

func TestReadSuites(t *testing.T) {
	suites, err := dictionary.ReadSuites(strings.NewReader(suitesYAML))
	require.NoError(t, err)
	require.Len(t, suites, 3)
	assert.Equal(t, "good", suites[0].Trigger)
	assert.Equal(t, dive.Concept{Label: "thumbs up", Emoji: "👍", Icon: "thumb", Frequency: 5}, suites[0].Concepts[0])

	empty, err := dictionary.ReadSuites(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = dictionary.ReadSuites(strings.NewReader("suites: [oops"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	src := dictionary.Sources{
		Dictionary: writeFile(t, dir, "words.jsonl", wordsJSONL),
		Concepts:   writeFile(t, dir, "concepts.yaml", suitesYAML),
		Hanzi:      writeFile(t, dir, "hanzi.txt", "好 120\n"),
	}

	tr, stats, err := dictionary.Build(src, logging.Discard())
	require.NoError(t, err)

	// hello, help, good, sunny, plus the pinyin trigger "hao".
	assert.Equal(t, 5, stats.Words)
	assert.Equal(t, 4, stats.Skipped, "three bad lines and the one-letter label")

	good, ok := tr.FindNode("good")
	require.True(t, ok)
	assert.Equal(t, 20, good.Frequency, "trigger keeps its dictionary frequency")
	thumbs, ok := good.Child("thumbs up")
	require.True(t, ok)
	assert.True(t, thumbs.IsConcept())

	sunny, ok := tr.FindNode("sunny")
	require.True(t, ok)
	assert.Zero(t, sunny.Frequency)

	hao, ok := tr.FindNode("hao")
	require.True(t, ok)
	assert.True(t, hao.IsWordEnd())
	assert.Positive(t, hao.ChildCount())
}

func TestBuildErrors(t *testing.T) {
	_, _, err := dictionary.Build(dictionary.Sources{}, logging.Discard())
	assert.ErrorIs(t, err, dictionary.ErrNoSources)

	_, _, err = dictionary.Build(dictionary.Sources{Dictionary: filepath.Join(t.TempDir(), "missing.jsonl")}, logging.Discard())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteSuites(t *testing.T) {
	in := []dive.ConceptSuite{{Trigger: "hi", Concepts: []dive.Concept{{Label: "wave", Emoji: "👋", Frequency: 1}}}}
	var buf bytes.Buffer
	require.NoError(t, dictionary.WriteSuites(&buf, in))

	out, err := dictionary.ReadSuites(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
