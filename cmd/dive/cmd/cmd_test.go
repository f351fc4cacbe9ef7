package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/dive/internal/store"
)

// run executes the root command. Cobra keeps flag values between runs, so
// callers spell out every flag they depend on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func initDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, "--config", dir, "init", "--force=false")
	require.NoError(t, err, out)
	return dir
}

func TestInit(t *testing.T) {
	dir := initDir(t)
	for _, name := range []string{"settings.yaml", "dictionary.jsonl", "concepts.yaml"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	_, err := run(t, "--config", dir, "init", "--force=false")
	assert.ErrorContains(t, err, "already exists")

	out, err := run(t, "--config", dir, "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Created dictionary.jsonl")
}

func TestPredictJSON(t *testing.T) {
	dir := initDir(t)
	out, err := run(t, "--config", dir, "predict", "he", "--json", "--previous=", "--max=0", "--no-user-data")
	require.NoError(t, err, out)

	var rows []predictionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "l", rows[0].Symbol)
	assert.Equal(t, 210, rows[0].Score)
	assert.ElementsMatch(t, []string{"hello", "help"}, rows[0].Reaches)
	assert.Equal(t, "r", rows[1].Symbol)
}

func TestPredictText(t *testing.T) {
	dir := initDir(t)
	out, err := run(t, "--config", dir, "predict", "zz", "--json=false", "--previous=", "--max=3", "--no-user-data=false")
	require.NoError(t, err, out)
	assert.Contains(t, out, `Prefix "zz" is not in the dictionary`)
	assert.Contains(t, out, " 3. ")
}

func TestUserdataRoundTrip(t *testing.T) {
	dir := initDir(t)
	in := filepath.Join(t.TempDir(), "learned.yaml")
	require.NoError(t, os.WriteFile(in, []byte("boosts:\n  hello: 3\nbigrams:\n  good:\n    morning: 2\n"), 0644))

	out, err := run(t, "--config", dir, "userdata", "import", in, "--merge=false")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Stored 1 boosted words and 1 bigrams")

	_, err = run(t, "--config", dir, "userdata", "import", in, "--merge")
	require.NoError(t, err)

	out, err = run(t, "--config", dir, "userdata", "export", "--output=")
	require.NoError(t, err)
	assert.Contains(t, out, "hello: 6")
	assert.Contains(t, out, "morning: 4")

	// Stored boosts reach the ranking.
	out, err = run(t, "--config", dir, "predict", "hell", "--json", "--previous=", "--max=0", "--no-user-data=false")
	require.NoError(t, err, out)
	var rows []predictionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Boost)

	_, err = run(t, "--config", dir, "userdata", "clear", "--yes=false")
	assert.ErrorContains(t, err, "--yes")
	_, err = run(t, "--config", dir, "userdata", "clear", "--yes")
	require.NoError(t, err)

	out, err = run(t, "--config", dir, "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Boosted:  0 words")
	assert.Contains(t, out, "Suites:   4 with 11 concepts")
}

func TestMergeUserData(t *testing.T) {
	a := store.UserData{
		Boosts:  map[string]int{"hi": 1},
		Bigrams: map[string]map[string]int{"say": {"hi": 1}},
	}
	b := store.UserData{
		Boosts:  map[string]int{"hi": 2, "yo": 1},
		Bigrams: map[string]map[string]int{"say": {"yo": 1}},
	}
	got := mergeUserData(a, b)
	assert.Equal(t, map[string]int{"hi": 3, "yo": 1}, got.Boosts)
	assert.Equal(t, map[string]int{"hi": 1, "yo": 1}, got.Bigrams["say"])
	assert.Equal(t, 1, a.Boosts["hi"])
}

func TestReplay(t *testing.T) {
	dir := initDir(t)
	trace := filepath.Join(t.TempDir(), "trace.yaml")
	require.NoError(t, os.WriteFile(trace, []byte(`frame_ms: 16
aim: [0]
samples:
  - {t: 0, type: down, x: 100, y: 100}
  - {t: 3000, type: up, x: 100, y: 100}
`), 0644))

	out, err := run(t, "--config", dir, "replay", trace, "--tail=0s", "--fresh", "--learn=false")
	require.NoError(t, err, out)
	assert.Contains(t, out, "select")
	assert.Contains(t, out, "Frames: 187")
}

func TestHanzi(t *testing.T) {
	list := filepath.Join(t.TempDir(), "chars.txt")
	require.NoError(t, os.WriteFile(list, []byte("好 10\n# comment\n中 5\n"), 0644))
	words := filepath.Join(t.TempDir(), "syllables.jsonl")

	out, err := run(t, "hanzi", list, "--output=", "--words", words)
	require.NoError(t, err, out)
	assert.Contains(t, out, "trigger: hao")
	assert.Contains(t, out, "2 characters")

	raw, err := os.ReadFile(words)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"word":"zhong"`)
}
