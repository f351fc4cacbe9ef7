package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// canvas is a fixed grid of terminal cells that text can be stamped onto at
// arbitrary positions. Wide runes take two cells.
type canvas struct {
	w, h    int
	cells   [][]cell
	palette []lipgloss.Style
}

type cell struct {
	text  string
	tail  bool // Right half of a wide rune
	style int  // Index into palette, 0 is unstyled
}

func newCanvas(w, h int, palette ...lipgloss.Style) *canvas {
	c := &canvas{w: w, h: h, palette: append([]lipgloss.Style{lipgloss.NewStyle()}, palette...)}
	c.cells = make([][]cell, h)
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x].text = " "
		}
	}
	return c
}

// put writes s starting at column x of row y. Runes falling outside the
// grid are dropped. style is a 1-based palette index.
func (c *canvas) put(x, y int, s string, style int) {
	if y < 0 || y >= c.h {
		return
	}
	row := c.cells[y]
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x >= 0 && x+rw <= c.w {
			c.clear(row, x)
			if rw == 2 {
				c.clear(row, x+1)
			}
			row[x] = cell{text: string(r), style: style}
			if rw == 2 {
				row[x+1] = cell{tail: true, style: style}
			}
		}
		x += rw
	}
}

// clear blanks the wide rune that owns column x, if any.
func (c *canvas) clear(row []cell, x int) {
	switch {
	case row[x].tail && x > 0:
		row[x-1] = cell{text: " "}
	case !row[x].tail && x+1 < c.w && row[x+1].tail:
		row[x+1] = cell{text: " "}
	}
	row[x] = cell{text: " "}
}

// empty reports whether column x of row y holds a blank.
func (c *canvas) empty(x, y int) bool {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return false
	}
	return c.cells[y][x].text == " " && !c.cells[y][x].tail
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var line, run strings.Builder
		style := 0
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style == 0 {
				line.WriteString(run.String())
			} else {
				line.WriteString(c.palette[style].Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.tail {
				continue
			}
			if cl.style != style {
				flush()
				style = cl.style
			}
			run.WriteString(cl.text)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
