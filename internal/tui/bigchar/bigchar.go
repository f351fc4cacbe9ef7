// Package bigchar renders the focused candidate as large block art using
// half-block characters.
package bigchar

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrNoFont is returned by Search when none of the known fonts exist.
var ErrNoFont = errors.New("no usable font found")

// SystemFonts lists the fonts tried by Search, CJK coverage first.
var SystemFonts = []string{
	// macOS
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/STHeiti Light.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	// Windows
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\arial.ttf",
}

const (
	faceSize  = 64
	threshold = 40 // Gray level at which a half cell is lit
)

// Renderer draws glyphs from one font face. A nil Renderer renders nothing.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	text       string
	cols, rows int
}

// Load opens a TrueType/OpenType font or collection. Collections use their
// first font.
func Load(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	fnt, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: faceSize, DPI: 72})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	return &Renderer{face: face, cache: make(map[cacheKey]string)}, nil
}

func parse(data []byte) (*opentype.Font, error) {
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		return coll.Font(0)
	}
	return opentype.Parse(data)
}

// Search loads the configured font, falling back to SystemFonts.
func Search(preferred string) (*Renderer, error) {
	paths := SystemFonts
	if preferred != "" {
		paths = append([]string{preferred}, SystemFonts...)
	}
	for _, p := range paths {
		if r, err := Load(p); err == nil {
			return r, nil
		}
	}
	return nil, ErrNoFont
}

// Available reports whether r can draw.
func (r *Renderer) Available() bool {
	return r != nil && r.face != nil
}

// Render draws the first rune of text in a cols×rows cell block. Results
// are cached per size.
func (r *Renderer) Render(text string, cols, rows int) string {
	if !r.Available() || text == "" || cols <= 0 || rows <= 0 {
		return ""
	}
	key := cacheKey{text: text, cols: cols, rows: rows}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		return s
	}
	s := toHalfBlocks(scaleDown(r.rasterize([]rune(text)[0]), cols, rows*2), cols, rows)
	r.cache[key] = s
	return s
}

func (r *Renderer) rasterize(ch rune) *image.Gray {
	bounds, _, _ := r.face.GlyphBounds(ch)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	w := max(glyphWidth+padding*2, faceSize)
	h := max(glyphHeight+padding*2, faceSize)

	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P((w-glyphWidth)/2-bounds.Min.X.Floor(), h-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(string(ch))
	return img
}

// scaleDown resamples src to w×h by area averaging.
func scaleDown(src *image.Gray, w, h int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xr := float64(sw) / float64(w)
	yr := float64(sh) / float64(h)

	for dy := 0; dy < h; dy++ {
		y0, y1 := int(float64(dy)*yr), min(int(float64(dy+1)*yr), sh)
		for dx := 0; dx < w; dx++ {
			x0, x1 := int(float64(dx)*xr), min(int(float64(dx+1)*xr), sw)
			sum, n := 0, 0
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// toHalfBlocks maps each pair of vertical pixels to one cell.
func toHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	lit := func(x, y int) bool {
		if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
			return false
		}
		return img.GrayAt(x, y).Y > threshold
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top, bottom := lit(col, row*2), lit(col, row*2+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
