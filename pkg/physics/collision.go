// pkg/physics/collision.go
package physics

import "math"

// FallbackNormal is used when two shapes overlap with coincident reference
// points and no direction can be derived from the geometry. It points up.
var FallbackNormal = Vector2D{X: 0, Y: -1}

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping. Touching circles do not
// collide.
func (c Circle) Collides(other Circle) bool {
	r := c.Radius + other.Radius
	return c.Center.Sub(other.Center).LengthSquared() < r*r
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min    Vector2D
	Width  float64
	Height float64
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Min.X + r.Width, Y: r.Min.Y + r.Height}
}

// ClosestPoint clamps p into the rectangle.
func (r Rect) ClosestPoint(p Vector2D) Vector2D {
	max := r.Max()
	return Vector2D{
		X: math.Max(r.Min.X, math.Min(p.X, max.X)),
		Y: math.Max(r.Min.Y, math.Min(p.Y, max.Y)),
	}
}

// CollisionResult contains information about a collision. Normal points from
// the first shape toward the second; Penetration is the overlap depth.
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles
func CheckCollision(a, b Circle) CollisionResult {
	if !a.Collides(b) {
		return CollisionResult{}
	}

	delta := b.Center.Sub(a.Center)
	normal := FallbackNormal
	if delta.LengthSquared() > 0 {
		normal = delta.Normalize()
	}

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - delta.Length(),
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// CheckCircleRect tests a circle against a rectangle. The normal points from
// the closest point on the rectangle toward the circle center.
func CheckCircleRect(c Circle, r Rect) CollisionResult {
	closest := r.ClosestPoint(c.Center)
	delta := c.Center.Sub(closest)
	distance := delta.Length()

	if distance >= c.Radius {
		return CollisionResult{}
	}

	normal := FallbackNormal
	if distance > 0 {
		normal = delta.Normalize()
	}

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  c.Radius - distance,
		ContactPoint: closest,
	}
}

// CircleOf returns the circle collider of a circle body.
func CircleOf(b *Body) Circle {
	return Circle{Center: b.Position, Radius: b.Shape.Radius}
}

// RectOf returns the rectangle collider of a rect body.
func RectOf(b *Body) Rect {
	return Rect{Min: b.Position, Width: b.Shape.Width, Height: b.Shape.Height}
}

// CheckCircleCollision tests two circle bodies.
func CheckCircleCollision(a, b *Body) CollisionResult {
	return CheckCollision(CircleOf(a), CircleOf(b))
}

// CheckCircleRectCollision tests a circle body against a rect body.
func CheckCircleRectCollision(circle, rect *Body) CollisionResult {
	return CheckCircleRect(CircleOf(circle), RectOf(rect))
}

// Detect picks the test for the shape pair. The returned normal always points
// from a toward b, so the result can be handed to the resolver as is.
// Rect-rect pairs never collide.
func Detect(a, b *Body) CollisionResult {
	switch a.Shape.Kind {
	case ShapeCircle:
		switch b.Shape.Kind {
		case ShapeCircle:
			return CheckCircleCollision(a, b)
		case ShapeRect:
			res := CheckCircleRectCollision(a, b)
			// CheckCircleRect reports rect -> circle; flip it to a -> b.
			res.Normal = res.Normal.Neg()
			return res
		}
	case ShapeRect:
		switch b.Shape.Kind {
		case ShapeCircle:
			return CheckCircleRectCollision(b, a)
		case ShapeRect:
			return CollisionResult{}
		}
	}
	return CollisionResult{}
}
