// pkg/physics/contact.go
package physics

import "math"

// GroundContactSlop is how far above the ground line a body's bottom may
// sit and still stand on the ground.
const GroundContactSlop = 0.5

// FloorNormal is the smallest downward component of a contact normal, taken
// toward a supported body on the ground, for the ground to hold that body in
// place.
const FloorNormal = 0.5

// Support marks which bodies of a pair hold still on their own, by standing
// on the ground or being asleep.
type Support struct {
	A, B bool
}

// OnGround reports whether the bottom of b touches or crosses the ground
// line.
func (e *Engine) OnGround(b *Body) bool {
	return b.Bottom() >= e.cfg.GroundY-GroundContactSlop
}

// RestingSpeed is the largest closing speed treated as resting contact: one
// tick of gravity plus the rest threshold.
func (e *Engine) RestingSpeed() float64 {
	return e.cfg.Gravity + e.cfg.RestThreshold
}

// ResolveContact resolves a colliding pair like Resolve, with two
// exceptions for a pair where only one body is supported.
//
// A supported body standing on the ground and struck from above is held in
// place by the ground: the other body bounces off it as off a wall.
//
// When the pair closes no faster than RestingSpeed the supported body is
// left alone. The other body stops outright when its speed is within
// RestingSpeed, otherwise it loses its closing velocity along the normal,
// and it alone is pushed out of the overlap. Two supported bodies in
// resting contact meet without bounce.
func (e *Engine) ResolveContact(a, b *Body, res CollisionResult, support Support) Contact {
	if !res.Collided {
		return Contact{Result: res}
	}
	closing := b.Velocity.Sub(a.Velocity).Dot(res.Normal)
	if closing > 0 || (!support.A && !support.B) {
		return e.Resolve(a, b, res)
	}

	push := math.Max(res.Penetration-SeparationSlop, 0) * SeparationPercent
	if -closing > e.RestingSpeed() {
		switch {
		case support.A && !support.B && e.floor(a, res.Normal.Neg()):
			return e.bounceOff(b, a, res.Normal, res, closing, push)
		case support.B && !support.A && e.floor(b, res.Normal):
			return e.bounceOff(a, b, res.Normal.Neg(), res, closing, push)
		}
		return e.Resolve(a, b, res)
	}

	invA, invB := a.InverseMass(), b.InverseMass()
	impulse := -closing / (invA + invB)

	switch {
	case support.A && support.B:
		step := res.Normal.Scale(impulse)
		a.Velocity = a.Velocity.Sub(step.Scale(invA))
		b.Velocity = b.Velocity.Add(step.Scale(invB))
		e.settle(a)
		e.settle(b)
		e.SeparateBodies(a, b, res)
	case support.A:
		e.restOn(b, res.Normal.Scale(-closing))
		b.Position = b.Position.Add(res.Normal.Scale(push))
	default:
		e.restOn(a, res.Normal.Scale(closing))
		a.Position = a.Position.Sub(res.Normal.Scale(push))
	}
	return Contact{Result: res, Impulse: math.Abs(impulse), Applied: true, Resting: true}
}

// floor reports whether the ground holds s against a hit along into, the
// normal pointing into s.
func (e *Engine) floor(s *Body, into Vector2D) bool {
	return into.Y >= FloorNormal && e.OnGround(s)
}

// bounceOff reflects m off the immovable support s. out points from s toward
// m and closing is their (negative) approach speed along it.
func (e *Engine) bounceOff(m, s *Body, out Vector2D, res CollisionResult, closing, push float64) Contact {
	restitution := math.Min(clampUnit(m.Restitution), clampUnit(s.Restitution))
	dv := -(1 + restitution) * closing
	m.Velocity = m.Velocity.Add(out.Scale(dv))
	m.Position = m.Position.Add(out.Scale(push))
	return Contact{Result: res, Impulse: dv / m.InverseMass(), Applied: true}
}

// restOn applies correction to a body lying on a support, or stops it when
// it is slow enough to stay put.
func (e *Engine) restOn(b *Body, correction Vector2D) {
	if b.Velocity.Length() <= e.RestingSpeed() {
		b.Velocity = Vector2D{}
		return
	}
	b.Velocity = b.Velocity.Add(correction)
	e.settle(b)
}

// settle zeroes the velocity of a body already at rest so it falls asleep.
func (e *Engine) settle(b *Body) {
	if e.IsAtRest(b) {
		b.Velocity = Vector2D{}
	}
}
