// pkg/physics/launch.go
package physics

import "math"

// ClampDrag limits how far the pull point can be from the slingshot anchor.
func (e *Engine) ClampDrag(anchor, pull Vector2D) Vector2D {
	offset := pull.Sub(anchor)
	distance := offset.Length()
	if distance <= e.cfg.MaxDragDistance {
		return pull
	}
	return anchor.Add(offset.Scale(e.cfg.MaxDragDistance / distance))
}

// LaunchVelocity maps a slingshot pull to an initial velocity. The body flies
// from the pull point toward and past the anchor. A pull shorter than
// MinLaunchPower does not launch.
func (e *Engine) LaunchVelocity(anchor, pull Vector2D) (Vector2D, bool) {
	delta := anchor.Sub(e.ClampDrag(anchor, pull))
	power := delta.Length()
	if power < e.cfg.MinLaunchPower || power == 0 {
		return Vector2D{}, false
	}
	speed := math.Min(power*e.cfg.LaunchPowerScale, e.cfg.MaxLaunchSpeed)
	return FromAngle(delta.Angle(), speed), true
}
