package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKeepsLastWrite(t *testing.T) {
	var w Writer = &Memory{}
	require.NoError(t, w.Write("hello"))
	require.NoError(t, w.Write("hello world"))
	assert.Equal(t, "hello world", w.(*Memory).Text)
}

func TestSystemReportsUnsupported(t *testing.T) {
	if Available() {
		t.Skip("a clipboard backend is installed")
	}
	assert.ErrorIs(t, System{}.Write("x"), ErrUnavailable)
}
