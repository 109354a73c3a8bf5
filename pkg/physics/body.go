// pkg/physics/body.go
package physics

import (
	"errors"
	"fmt"
)

// ShapeKind tags which collision shape a body carries.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is the collision geometry of a body. Circles use Radius and are
// anchored at their center; rects use Width/Height and are anchored at their
// top-left corner.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
}

// NewCircle returns a circle shape.
func NewCircle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// NewRect returns an axis-aligned rectangle shape.
func NewRect(width, height float64) Shape {
	return Shape{Kind: ShapeRect, Width: width, Height: height}
}

// Body is a dynamic participant in the simulation. The engine mutates
// Position and Velocity in place and never creates or destroys bodies.
type Body struct {
	Position    Vector2D
	Velocity    Vector2D
	Shape       Shape
	Mass        float64
	Restitution float64

	// Cosmetic only; collision response never reads or writes these.
	Angle           float64
	AngularVelocity float64
}

// BodyOption customizes a body built by Engine.NewBody.
type BodyOption func(*bodyOptions)

type bodyOptions struct {
	mass        float64
	restitution *float64
	velocity    Vector2D
}

// WithMass sets the body mass. Non-positive values fall back to 1.
func WithMass(mass float64) BodyOption {
	return func(o *bodyOptions) { o.mass = mass }
}

// WithRestitution sets a per-body bounce coefficient, clamped to [0,1].
func WithRestitution(e float64) BodyOption {
	return func(o *bodyOptions) { o.restitution = &e }
}

// WithVelocity sets the initial velocity.
func WithVelocity(v Vector2D) BodyOption {
	return func(o *bodyOptions) { o.velocity = v }
}

// NewBody builds a body with every optional attribute resolved against the
// engine configuration.
func (e *Engine) NewBody(pos Vector2D, shape Shape, opts ...BodyOption) *Body {
	o := bodyOptions{mass: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mass <= 0 {
		o.mass = 1
	}
	restitution := e.cfg.Restitution
	if o.restitution != nil {
		restitution = *o.restitution
	}
	return &Body{
		Position:    pos,
		Velocity:    o.velocity,
		Shape:       shape,
		Mass:        o.mass,
		Restitution: clampUnit(restitution),
	}
}

// IsCircle reports whether the body has a circle shape.
func (b *Body) IsCircle() bool { return b.Shape.Kind == ShapeCircle }

// IsRect reports whether the body has a rect shape.
func (b *Body) IsRect() bool { return b.Shape.Kind == ShapeRect }

// Center returns the geometric center regardless of anchor convention.
func (b *Body) Center() Vector2D {
	if b.IsRect() {
		return Vector2D{
			X: b.Position.X + b.Shape.Width/2,
			Y: b.Position.Y + b.Shape.Height/2,
		}
	}
	return b.Position
}

// Bottom returns the lowest Y extent of the body.
func (b *Body) Bottom() float64 {
	if b.IsRect() {
		return b.Position.Y + b.Shape.Height
	}
	return b.Position.Y + b.Shape.Radius
}

// InverseMass returns 1/mass, treating a non-positive mass as 1.
func (b *Body) InverseMass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return 1 / b.Mass
}

// Validate reports whether the body can take part in collision tests.
func (b *Body) Validate() error {
	if b == nil {
		return errors.New("nil body")
	}
	switch b.Shape.Kind {
	case ShapeCircle:
		if b.Shape.Radius <= 0 {
			return fmt.Errorf("circle radius must be positive, got %v", b.Shape.Radius)
		}
	case ShapeRect:
		if b.Shape.Width <= 0 || b.Shape.Height <= 0 {
			return fmt.Errorf("rect size must be positive, got %vx%v", b.Shape.Width, b.Shape.Height)
		}
	default:
		return fmt.Errorf("unknown shape kind %v", b.Shape.Kind)
	}
	if b.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %v", b.Mass)
	}
	if !b.Velocity.IsFinite() {
		return fmt.Errorf("velocity is not finite: %v", b.Velocity)
	}
	if !b.Position.IsFinite() {
		return fmt.Errorf("position is not finite: %v", b.Position)
	}
	return nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
