package physics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/f3rmion/dive/internal/physics"
)

const frame = 1.0 / 60

func TestUpdateRejectsBadSteps(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.OnTouchDown(0, 0)
	p.OnTouchMove(100, 0)
	before := p.Snapshot()

	p.Update(0)
	p.Update(-0.01)
	p.Update(0.2)
	assert.Equal(t, before, p.Snapshot())

	p.Update(frame)
	assert.NotEqual(t, before.Theta, p.Snapshot().Theta)
}

func TestSteeringDirection(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	_, phi0 := p.Orientation()

	p.OnTouchDown(100, 100)
	p.OnTouchMove(150, 160) // right and down
	p.Update(frame)

	theta, phi := p.Orientation()
	assert.Greater(t, theta, 0.0)
	assert.Less(t, phi, phi0, "dragging down turns the view up")
}

func TestMoveSamplesAccumulateUntilUpdate(t *testing.T) {
	split := physics.New(physics.DefaultTuning())
	split.OnTouchDown(0, 0)
	split.OnTouchMove(30, 10)
	split.OnTouchMove(50, 40)
	split.Update(frame)

	whole := physics.New(physics.DefaultTuning())
	whole.OnTouchDown(0, 0)
	whole.OnTouchMove(50, 40)
	whole.Update(frame)

	assert.InDelta(t, whole.Velocity().X, split.Velocity().X, 1e-12)
	assert.InDelta(t, whole.Velocity().Y, split.Velocity().Y, 1e-12)

	// The accumulator is consumed by the step.
	v := split.Velocity()
	split.Update(frame)
	assert.InDelta(t, v.X*physics.DefaultTuning().Smoothing, split.Velocity().X, 1e-12)
}

func TestMoveIgnoredWhenNotTouching(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.OnTouchMove(500, 500)
	p.Update(frame)
	assert.Zero(t, p.Speed())
}

func TestMomentumDecaysAfterRelease(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.OnTouchDown(0, 0)
	for i := 1; i <= 10; i++ {
		p.OnTouchMove(float64(i*40), 0)
		p.Update(frame)
	}
	p.OnTouchUp()
	speed := p.Speed()
	require.Greater(t, speed, 0.0)

	for i := 0; i < 120; i++ {
		p.Update(frame)
		assert.LessOrEqual(t, p.Speed(), speed)
		speed = p.Speed()
	}
	assert.InDelta(t, 0, speed, 1e-3)
}

func TestSpeedClamped(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.OnTouchDown(0, 0)
	for i := 1; i <= 30; i++ {
		p.OnTouchMove(float64(i*100000), 0)
		p.Update(frame)
		assert.LessOrEqual(t, p.Speed(), 3.0+1e-9)
	}
}

func TestMagnetismAndSelection(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.SetFocusedNode(2)
	p.OnTouchDown(0, 0)

	// Linger threshold must pass before magnetism grows.
	p.Update(0.02)
	assert.Zero(t, p.Magnetism())
	p.Update(0.02)
	assert.Greater(t, p.Magnetism(), 0.0)

	for i := 0; i < 200 && !p.ShouldSelect(); i++ {
		require.False(t, p.Zoom() >= 0.95)
		p.Update(frame)
	}
	require.True(t, p.ShouldSelect())
	assert.InDelta(t, 1.0*(1-p.Zoom()*0.7), p.Radius(), 1e-9)
	assert.Less(t, p.Radius(), 1.0)
}

func TestRetargetForfeitsCommitment(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.SetFocusedNode(0)
	p.OnTouchDown(0, 0)
	for i := 0; i < 10; i++ {
		p.Update(frame)
	}
	require.Greater(t, p.Magnetism(), 0.0)
	zoom := p.Zoom()

	p.SetFocusedNode(0)
	assert.Greater(t, p.Magnetism(), 0.0, "same index is a no-op")

	p.SetFocusedNode(1)
	assert.Zero(t, p.Magnetism())
	assert.Zero(t, p.Linger())
	assert.Equal(t, zoom, p.Zoom(), "zoom decays in Update, not on retarget")
}

func TestDecayWithoutTouch(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.SetFocusedNode(0)
	p.OnTouchDown(0, 0)
	for i := 0; i < 30; i++ {
		p.Update(frame)
	}
	p.OnTouchUp()
	for i := 0; i < 60; i++ {
		p.Update(frame)
	}
	assert.Zero(t, p.Zoom())
	assert.Zero(t, p.Magnetism())
	assert.Zero(t, p.Linger())
	assert.Equal(t, 1.0, p.Radius())
}

func TestShouldSelectNeedsFocus(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.SetFocusedNode(0)
	p.OnTouchDown(0, 0)
	for i := 0; i < 120; i++ {
		p.Update(frame)
	}
	require.True(t, p.ShouldSelect())

	p.SetFocusedNode(physics.NoFocus)
	assert.False(t, p.ShouldSelect())
}

func TestResetLevels(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	p.SetFocusedNode(1)
	p.OnTouchDown(0, 0)
	for i := 1; i <= 20; i++ {
		p.OnTouchMove(float64(i*30), float64(i*10))
		p.Update(frame)
	}
	theta, phi := p.Orientation()

	p.Reset()
	assert.Zero(t, p.Zoom())
	assert.Equal(t, physics.NoFocus, p.FocusedIndex())
	assert.Equal(t, 1.0, p.Radius())
	gotTheta, gotPhi := p.Orientation()
	assert.Equal(t, theta, gotTheta)
	assert.Equal(t, phi, gotPhi)

	p.FullReset()
	gotTheta, gotPhi = p.Orientation()
	assert.Zero(t, gotTheta)
	assert.Equal(t, math.Pi/2, gotPhi)
	assert.Zero(t, p.Speed())
}

func TestLookDirectionUnit(t *testing.T) {
	p := physics.New(physics.DefaultTuning())
	d := p.LookDirection()
	assert.InDelta(t, 0, d.X, 1e-12)
	assert.InDelta(t, 0, d.Y, 1e-12)
	assert.InDelta(t, -1, d.Z, 1e-12)

	v := physics.Direction(1.2, 0.4)
	assert.InDelta(t, 1, math.Sqrt(v.X*v.X+v.Y*v.Y+v.Z*v.Z), 1e-12)
}

func TestPropertyPolarClamp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := physics.New(physics.DefaultTuning())
		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				p.OnTouchDown(rapid.Float64Range(-1e4, 1e4).Draw(t, "x"), rapid.Float64Range(-1e4, 1e4).Draw(t, "y"))
			case 1:
				p.OnTouchMove(rapid.Float64Range(-1e5, 1e5).Draw(t, "x"), rapid.Float64Range(-1e5, 1e5).Draw(t, "y"))
			case 2:
				p.OnTouchUp()
			case 3:
				p.SetFocusedNode(rapid.IntRange(-1, 4).Draw(t, "focus"))
			}
			p.Update(rapid.Float64Range(-0.05, 0.15).Draw(t, "dt"))

			_, phi := p.Orientation()
			if phi < 0.1 || phi > math.Pi-0.1 {
				t.Fatalf("polar angle %v escaped clamp", phi)
			}
			if p.ShouldSelect() != (p.Zoom() >= 0.95 && p.FocusedIndex() >= 0) {
				t.Fatalf("selection predicate mismatch at zoom %v focus %d", p.Zoom(), p.FocusedIndex())
			}
		}
	})
}

func TestPropertyIdleKeepsOrientation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := physics.New(physics.DefaultTuning())
		theta0, phi0 := p.Orientation()
		for _, dt := range rapid.SliceOf(rapid.Float64Range(-0.05, 0.15)).Draw(t, "dts") {
			p.Update(dt)
			if p.Speed() != 0 {
				t.Fatalf("speed %v without input", p.Speed())
			}
		}
		theta, phi := p.Orientation()
		if theta != theta0 || phi != phi0 {
			t.Fatalf("orientation moved without input")
		}
	})
}
