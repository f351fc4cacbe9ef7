// Package layout places candidates around the viewer and resolves which one
// the camera is aimed at.
package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// goldenAngle spaces consecutive spiral points without alignment.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

var (
	forward = r3.Vec{Z: -1}
	right   = r3.Vec{X: 1}
	worldUp = r3.Vec{Y: 1}
)

// Sphere describes where candidates sit and how the camera sees them.
// Angles are in radians.
type Sphere struct {
	Radius float64 `yaml:"radius"`
	Spread float64 `yaml:"spread"` // Largest angular offset from forward
	Cone   float64 `yaml:"cone"`   // Hit-test half angle
	FOV    float64 `yaml:"fov"`    // Horizontal field of view
}

// DefaultSphere returns the stock layout.
func DefaultSphere() Sphere {
	return Sphere{
		Radius: 1,
		Spread: 1.0,
		Cone:   0.35,
		FOV:    2.0,
	}
}

// Place returns n candidate positions on a golden-angle spiral centered on
// the forward direction. The first position is closest to center.
func (s Sphere) Place(n int) []r3.Vec {
	if n <= 0 {
		return nil
	}
	out := make([]r3.Vec, n)
	for i := range out {
		offset := s.Spread * math.Sqrt((float64(i)+0.5)/float64(n))
		az := float64(i) * goldenAngle
		side := r3.Add(r3.Scale(math.Cos(az), right), r3.Scale(math.Sin(az), worldUp))
		dir := r3.Add(r3.Scale(math.Cos(offset), forward), r3.Scale(math.Sin(offset), side))
		out[i] = r3.Scale(s.Radius, dir)
	}
	return out
}

// HitTest returns the index of the point closest in angle to look, or -1 when
// none lies within the cone.
func (s Sphere) HitTest(look r3.Vec, points []r3.Vec) int {
	best := -1
	bestCos := 0.0
	limit := math.Cos(s.Cone)
	for i, p := range points {
		if r3.Norm(p) == 0 {
			continue
		}
		c := r3.Cos(look, p)
		if c < limit {
			continue
		}
		if best < 0 || c > bestCos {
			best, bestCos = i, c
		}
	}
	return best
}

// Project maps point onto a w×h screen for a camera looking along look.
// Magnification grows with zoom. ok is false when the point is behind the
// camera or off screen.
func (s Sphere) Project(look, point r3.Vec, w, h int, zoom float64) (x, y int, ok bool) {
	look = r3.Unit(look)
	camRight := r3.Cross(look, worldUp)
	if r3.Norm(camRight) < 1e-9 {
		camRight = right
	}
	camRight = r3.Unit(camRight)
	camUp := r3.Cross(camRight, look)

	dir := r3.Unit(point)
	depth := r3.Dot(dir, look)
	if depth <= 0 {
		return 0, 0, false
	}
	focal := (1 + zoom) / math.Tan(s.FOV/2)
	px := r3.Dot(dir, camRight) / depth * focal
	py := r3.Dot(dir, camUp) / depth * focal

	x = int(math.Round(float64(w)/2 + px*float64(w)/2))
	y = int(math.Round(float64(h)/2 - py*float64(h)/2))
	if x < 0 || x >= w || y < 0 || y >= h {
		return x, y, false
	}
	return x, y, true
}
