// Package clipboard copies composed text to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard backend is installed.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer is the clipboard sink used by the front end.
type Writer interface {
	Write(text string) error
}

// System writes to the OS clipboard.
type System struct{}

// Write copies text to the system clipboard.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available checks if clipboard functionality is available.
func Available() bool {
	return !clipboard.Unsupported
}

// Memory keeps the last written text. Useful where no clipboard exists.
type Memory struct {
	Text string
}

// Write stores text.
func (m *Memory) Write(text string) error {
	m.Text = text
	return nil
}
