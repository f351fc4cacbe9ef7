package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"pgregory.net/rapid"
)

func TestPlace(t *testing.T) {
	s := DefaultSphere()
	assert.Nil(t, s.Place(0))

	pts := s.Place(12)
	require.Len(t, pts, 12)
	for _, p := range pts {
		assert.InDelta(t, s.Radius, r3.Norm(p), 1e-9)
		angle := math.Acos(r3.Cos(forward, p))
		assert.LessOrEqual(t, angle, s.Spread+1e-9)
	}
	// Offsets grow along the spiral.
	assert.Less(t, math.Acos(r3.Cos(forward, pts[0])), math.Acos(r3.Cos(forward, pts[11])))
}

func TestHitTest(t *testing.T) {
	s := Sphere{Radius: 2, Cone: 0.3}
	points := []r3.Vec{
		{X: 1, Z: -1},
		{X: 0.1, Z: -2},
		{Y: 2},
		{},
	}
	assert.Equal(t, 1, s.HitTest(forward, points))
	assert.Equal(t, 2, s.HitTest(r3.Vec{Y: 1}, points))
	assert.Equal(t, -1, s.HitTest(r3.Vec{X: -1}, points))
	assert.Equal(t, -1, s.HitTest(forward, nil))
}

func TestProject(t *testing.T) {
	s := DefaultSphere()

	x, y, ok := s.Project(forward, r3.Vec{Z: -1}, 80, 24, 0)
	require.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 12, y)

	x, y, ok = s.Project(forward, r3.Vec{X: 0.2, Y: 0.1, Z: -1}, 80, 24, 0)
	require.True(t, ok)
	assert.Greater(t, x, 40, "right of center")
	assert.Less(t, y, 12, "above center")

	_, _, ok = s.Project(forward, r3.Vec{Z: 1}, 80, 24, 0)
	assert.False(t, ok, "behind the camera")

	// Zoom pushes an off-center point further out.
	near, _, _ := s.Project(forward, r3.Vec{X: 0.2, Z: -1}, 80, 24, 0)
	far, _, _ := s.Project(forward, r3.Vec{X: 0.2, Z: -1}, 80, 24, 0.5)
	assert.Greater(t, far, near)

	// Straight up still has a usable basis.
	_, _, ok = s.Project(worldUp, r3.Vec{Y: 1}, 80, 24, 0)
	assert.True(t, ok)
}

func TestPropertyHitTestPicksNearest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Sphere{Radius: 1, Cone: math.Pi}
		n := rapid.IntRange(1, 16).Draw(t, "n")
		points := make([]r3.Vec, n)
		for i := range points {
			points[i] = r3.Vec{
				X: rapid.Float64Range(-1, 1).Draw(t, "x"),
				Y: rapid.Float64Range(-1, 1).Draw(t, "y"),
				Z: rapid.Float64Range(-1, -0.1).Draw(t, "z"),
			}
		}
		got := s.HitTest(forward, points)
		if got < 0 {
			t.Fatalf("no hit with a full cone")
		}
		for i, p := range points {
			if r3.Cos(forward, p) > r3.Cos(forward, points[got])+1e-12 {
				t.Fatalf("point %d is closer than chosen %d", i, got)
			}
		}
	})
}
