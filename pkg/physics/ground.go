// pkg/physics/ground.go
package physics

import "math"

// GroundResponse describes how a body kind reacts to touching the ground
// line. Bounce multiplies vy (negative to reflect), Friction multiplies vx
// and SnapThreshold zeroes a residual vertical speed so resting contact
// converges. A zero Friction means the engine ground friction is used.
type GroundResponse struct {
	Bounce        float64
	Friction      float64
	SnapThreshold float64
}

// Presets observed for the game's targets and structures.
var (
	PigGround       = GroundResponse{Bounce: -0.5, Friction: 0.8, SnapThreshold: 1.0}
	StructureGround = GroundResponse{Bounce: -0.3, Friction: 0.7, SnapThreshold: 0.5}
)

// ResolveGround clamps a body that crossed the ground line back on top of
// it and applies the bounce response. It reports whether the body was in
// contact with the ground.
func (e *Engine) ResolveGround(b *Body, resp GroundResponse) bool {
	bottom := b.Bottom()
	if bottom <= e.cfg.GroundY {
		return false
	}

	b.Position.Y -= bottom - e.cfg.GroundY
	b.Velocity.Y *= resp.Bounce
	if resp.Friction != 0 {
		b.Velocity.X *= resp.Friction
	} else {
		e.ApplyFriction(b)
	}

	if math.Abs(b.Velocity.Y) < resp.SnapThreshold {
		b.Velocity.Y = 0
	}
	if math.Abs(b.Velocity.X) < e.cfg.RestThreshold {
		b.Velocity.X = 0
	}
	return true
}
