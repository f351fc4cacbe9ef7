// Package physics implements the continuous dive engine: camera orientation
// steered by smoothed pointer velocity, and a magnetism/zoom accumulator that
// turns sustained focus into a selection.
package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// NoFocus is the focused index when no candidate is targeted.
const NoFocus = -1

// Tuning holds the constants of the integration step. Rates are per second.
type Tuning struct {
	Smoothing           float64 `yaml:"smoothing"`            // Velocity blend kept per step
	Friction            float64 `yaml:"friction"`             // Linear friction while not touching
	MaxAngularVelocity  float64 `yaml:"max_angular_velocity"` // rad/s
	LingerThreshold     float64 `yaml:"linger_threshold"`     // Seconds of focus before magnetism grows
	MagnetismRate       float64 `yaml:"magnetism_rate"`
	MagnetismDecay      float64 `yaml:"magnetism_decay"`
	ZoomSpeed           float64 `yaml:"zoom_speed"`
	ZoomDecay           float64 `yaml:"zoom_decay"`
	SelectionThreshold  float64 `yaml:"selection_threshold"`  // Zoom needed to select
	SteeringSensitivity float64 `yaml:"steering_sensitivity"` // rad per input pixel
	PolarMargin         float64 `yaml:"polar_margin"`         // Distance kept from the poles
	RadiusShrink        float64 `yaml:"radius_shrink"`        // Fraction of radius lost at full zoom
	MaxStep             float64 `yaml:"max_step"`             // Longest accepted time step
	BaseRadius          float64 `yaml:"base_radius"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		Smoothing:           0.85,
		Friction:            4.0,
		MaxAngularVelocity:  3.0,
		LingerThreshold:     0.035,
		MagnetismRate:       5.0,
		MagnetismDecay:      8.0,
		ZoomSpeed:           1.5,
		ZoomDecay:           3.0,
		SelectionThreshold:  0.95,
		SteeringSensitivity: 0.003,
		PolarMargin:         0.1,
		RadiusShrink:        0.7,
		MaxStep:             0.1,
		BaseRadius:          1.0,
	}
}

// State is a copy of the engine's variables for rendering.
type State struct {
	Theta        float64 // Horizontal rotation
	Phi          float64 // Polar angle from +Y
	Velocity     r2.Vec
	Touching     bool
	FocusedIndex int
	Linger       float64
	Magnetism    float64
	Zoom         float64
	Radius       float64
}

// Physics is the dive state machine. It is not safe for concurrent use; the
// owner drives it from one update loop.
type Physics struct {
	tuning Tuning

	theta    float64
	phi      float64
	velocity r2.Vec
	raw      r2.Vec

	touching     bool
	lastX, lastY float64
	startX       float64
	startY       float64

	focused   int
	linger    float64
	magnetism float64
	zoom      float64
	radius    float64
}

// New creates an engine looking at the equator.
func New(tuning Tuning) *Physics {
	p := &Physics{tuning: tuning}
	p.FullReset()
	return p
}

// Tuning returns the constants in use.
func (p *Physics) Tuning() Tuning { return p.tuning }

// Update advances the engine by dt seconds. Steps that are not positive or
// longer than MaxStep are ignored without touching any state.
func (p *Physics) Update(dt float64) {
	t := p.tuning
	if dt <= 0 || dt > t.MaxStep {
		return
	}

	p.velocity = r2.Add(r2.Scale(t.Smoothing, p.velocity), r2.Scale(1-t.Smoothing, p.raw))

	if !p.touching {
		p.velocity = r2.Scale(math.Max(0, 1-t.Friction*dt), p.velocity)
	}

	if speed := r2.Norm(p.velocity); speed > t.MaxAngularVelocity {
		p.velocity = r2.Scale(t.MaxAngularVelocity/speed, p.velocity)
	}

	p.theta += p.velocity.X * dt
	p.phi += p.velocity.Y * dt
	p.phi = clamp(p.phi, t.PolarMargin, math.Pi-t.PolarMargin)

	if p.focused >= 0 && p.touching {
		p.linger += dt
		if p.linger >= t.LingerThreshold {
			p.magnetism = math.Min(1, p.magnetism+t.MagnetismRate*dt)
			p.zoom = math.Min(1, p.zoom+t.ZoomSpeed*p.magnetism*dt)
		}
	} else {
		p.magnetism = math.Max(0, p.magnetism-t.MagnetismDecay*dt)
		p.zoom = math.Max(0, p.zoom-t.ZoomDecay*dt)
		p.linger = 0
	}

	p.radius = t.BaseRadius * (1 - p.zoom*t.RadiusShrink)
	p.raw = r2.Vec{}
}

// OnTouchDown starts a steering contact.
func (p *Physics) OnTouchDown(x, y float64) {
	p.touching = true
	p.startX, p.startY = x, y
	p.lastX, p.lastY = x, y
}

// OnTouchMove converts the pixel delta since the last sample into raw
// angular velocity. Dragging down turns the view up. Samples accumulate
// until the next Update.
func (p *Physics) OnTouchMove(x, y float64) {
	if !p.touching {
		return
	}
	dx := x - p.lastX
	dy := y - p.lastY
	s := p.tuning.SteeringSensitivity
	p.raw = r2.Add(p.raw, r2.Vec{X: dx * s, Y: -dy * s})
	p.lastX, p.lastY = x, y
}

// OnTouchUp ends the contact. Velocity is kept and decays through friction.
func (p *Physics) OnTouchUp() {
	p.touching = false
}

// SetFocusedNode retargets the accumulator. Changing the target forfeits
// linger time and magnetism.
func (p *Physics) SetFocusedNode(index int) {
	if index == p.focused {
		return
	}
	p.focused = index
	p.linger = 0
	p.magnetism = 0
}

// ShouldSelect reports whether the focused candidate has been committed to.
func (p *Physics) ShouldSelect() bool {
	return p.zoom >= p.tuning.SelectionThreshold && p.focused >= 0
}

// Reset clears commitment and focus between words but keeps the camera
// where it is.
func (p *Physics) Reset() {
	p.zoom = 0
	p.magnetism = 0
	p.linger = 0
	p.focused = NoFocus
	p.radius = p.tuning.BaseRadius
}

// FullReset also recenters the camera and stops all motion.
func (p *Physics) FullReset() {
	p.Reset()
	p.theta = 0
	p.phi = math.Pi / 2
	p.velocity = r2.Vec{}
	p.raw = r2.Vec{}
	p.touching = false
}

// LookDirection is the unit vector for the current orientation.
func (p *Physics) LookDirection() r3.Vec {
	return Direction(p.theta, p.phi)
}

// Direction converts spherical angles to a unit vector with +Y up.
func Direction(theta, phi float64) r3.Vec {
	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: sinPhi * math.Sin(theta),
		Y: math.Cos(phi),
		Z: -sinPhi * math.Cos(theta),
	}
}

// Orientation returns the horizontal rotation and polar angle.
func (p *Physics) Orientation() (theta, phi float64) { return p.theta, p.phi }

// Speed is the magnitude of the smoothed velocity.
func (p *Physics) Speed() float64 { return r2.Norm(p.velocity) }

// Velocity returns the smoothed angular velocity.
func (p *Physics) Velocity() r2.Vec { return p.velocity }

// Radius is the effective candidate radius, shrinking as zoom grows.
func (p *Physics) Radius() float64 { return p.radius }

// Zoom is the commitment progress in [0, 1].
func (p *Physics) Zoom() float64 { return p.zoom }

// Magnetism is the pull toward the focused candidate in [0, 1].
func (p *Physics) Magnetism() float64 { return p.magnetism }

// Linger is how long, in seconds, the current focus has been held.
func (p *Physics) Linger() float64 { return p.linger }

// FocusedIndex returns the focused candidate, or NoFocus.
func (p *Physics) FocusedIndex() int { return p.focused }

// IsTouching reports whether a steering contact is down.
func (p *Physics) IsTouching() bool { return p.touching }

// TouchStart returns where the current or last contact began.
func (p *Physics) TouchStart() (x, y float64) { return p.startX, p.startY }

// Snapshot copies the current state.
func (p *Physics) Snapshot() State {
	return State{
		Theta:        p.theta,
		Phi:          p.phi,
		Velocity:     p.velocity,
		Touching:     p.touching,
		FocusedIndex: p.focused,
		Linger:       p.linger,
		Magnetism:    p.magnetism,
		Zoom:         p.zoom,
		Radius:       p.radius,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
