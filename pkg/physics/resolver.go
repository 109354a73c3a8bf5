// pkg/physics/resolver.go
package physics

import "math"

// Contact is the outcome of resolving one colliding pair.
type Contact struct {
	Result  CollisionResult
	Impulse float64 // |j|, informational only
	Applied bool    // false when the pair was already separating
	Resting bool    // settled as resting contact, see ResolveContact
}

// ResolveCollision applies an impulse along res.Normal (pointing from a to b)
// so the bodies bounce apart with the smaller of their restitutions. It
// returns the impulse magnitude, or applied=false if the bodies were already
// separating and nothing changed.
func (e *Engine) ResolveCollision(a, b *Body, res CollisionResult) (impulse float64, applied bool) {
	if !res.Collided {
		return 0, false
	}

	relative := b.Velocity.Sub(a.Velocity)
	velocityAlongNormal := relative.Dot(res.Normal)
	if velocityAlongNormal > 0 {
		return 0, false
	}

	restitution := math.Min(clampUnit(a.Restitution), clampUnit(b.Restitution))
	invA, invB := a.InverseMass(), b.InverseMass()

	j := -(1 + restitution) * velocityAlongNormal
	j /= invA + invB

	step := res.Normal.Scale(j)
	a.Velocity = a.Velocity.Sub(step.Scale(invA))
	b.Velocity = b.Velocity.Add(step.Scale(invB))

	return math.Abs(j), true
}

// SeparateBodies pushes overlapping bodies apart along the normal, each in
// proportion to its inverse mass. Only SeparationPercent of the overlap
// beyond SeparationSlop is removed per call.
func (e *Engine) SeparateBodies(a, b *Body, res CollisionResult) {
	if !res.Collided {
		return
	}
	invA, invB := a.InverseMass(), b.InverseMass()
	correction := math.Max(res.Penetration-SeparationSlop, 0) / (invA + invB) * SeparationPercent

	push := res.Normal.Scale(correction)
	a.Position = a.Position.Sub(push.Scale(invA))
	b.Position = b.Position.Add(push.Scale(invB))
}

// Resolve runs velocity resolution followed by positional correction.
func (e *Engine) Resolve(a, b *Body, res CollisionResult) Contact {
	impulse, applied := e.ResolveCollision(a, b, res)
	e.SeparateBodies(a, b, res)
	return Contact{Result: res, Impulse: impulse, Applied: applied}
}
