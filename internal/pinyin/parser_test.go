package pinyin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTone(t *testing.T) {
	tests := []struct {
		in    string
		tone  Tone
		plain string
	}{
		{"mā", Tone1, "ma"},
		{"hǎo", Tone3, "hao"},
		{"nǚ", Tone3, "nü"},
		{"de", Tone5, "de"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			tone, plain := extractTone(tc.in)
			assert.Equal(t, tc.tone, tone)
			assert.Equal(t, tc.plain, plain)
		})
	}
}

func TestReadings(t *testing.T) {
	p := NewParser()
	readings := p.Readings("好")
	require.NotEmpty(t, readings)
	assert.Contains(t, readings, Reading{Full: "hǎo", Plain: "hao", Tone: Tone3})

	assert.Empty(t, p.Readings("x"))
}

func TestSuites(t *testing.T) {
	p := NewParser()
	suites, words := p.Suites([]Entry{
		{Character: "好", Frequency: 120},
		{Character: "妈", Frequency: 40},
	})
	require.Len(t, words, len(suites))

	var hao, ma int = -1, -1
	for i, s := range suites {
		switch s.Trigger {
		case "hao":
			hao = i
		case "ma":
			ma = i
		}
	}
	require.GreaterOrEqual(t, hao, 0)
	require.GreaterOrEqual(t, ma, 0)

	c := suites[hao].Concepts[0]
	assert.Equal(t, "好", c.Emoji)
	assert.True(t, strings.HasPrefix(c.Label, "好 "))
	assert.Equal(t, 120, c.Frequency)
	assert.GreaterOrEqual(t, words[hao].Frequency, 120)
	assert.Equal(t, "hao", words[hao].Word)

	for _, s := range suites {
		for _, c := range s.Concepts {
			assert.GreaterOrEqual(t, len([]rune(c.Label)), 2)
		}
	}
}

func TestReadList(t *testing.T) {
	entries, err := ReadList(strings.NewReader("# common\n好 120\n\n妈\n"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"好", 120}, {"妈", 1}}, entries)

	_, err = ReadList(strings.NewReader("ab 3\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = ReadList(strings.NewReader("好 lots\n"))
	assert.ErrorContains(t, err, "invalid frequency")
}
