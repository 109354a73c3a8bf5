// pkg/physics/resolver_test.go
package physics

import (
	"math"
	"testing"
)

func TestEngine_ResolveCollision_Scenario(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.NewBody(Vector2D{X: 100, Y: 100}, NewCircle(20), WithVelocity(Vector2D{X: 5, Y: 0}))
	b := e.NewBody(Vector2D{X: 130, Y: 100}, NewCircle(18))

	result := CheckCircleCollision(a, b)
	if !result.Collided {
		t.Fatal("Expected collision: distance 30 < 38")
	}
	if !almostEqual(result.Normal.X, 1) || !almostEqual(result.Normal.Y, 0) {
		t.Errorf("Expected normal (1,0), got %v", result.Normal)
	}
	if !almostEqual(result.Penetration, 8) {
		t.Errorf("Expected penetration 8, got %v", result.Penetration)
	}

	momentumBefore := a.Velocity.X*a.Mass + b.Velocity.X*b.Mass
	impulse, applied := e.ResolveCollision(a, b, result)

	if !applied {
		t.Fatal("Expected impulse to be applied")
	}
	if !almostEqual(impulse, 4) {
		t.Errorf("Expected impulse 4, got %v", impulse)
	}
	if !almostEqual(a.Velocity.X, 1) {
		t.Errorf("Expected a.vx 1, got %v", a.Velocity.X)
	}
	if !almostEqual(b.Velocity.X, 4) {
		t.Errorf("Expected b.vx 4, got %v", b.Velocity.X)
	}
	momentumAfter := a.Velocity.X*a.Mass + b.Velocity.X*b.Mass
	if !almostEqual(momentumBefore, momentumAfter) {
		t.Errorf("Momentum not conserved: %v -> %v", momentumBefore, momentumAfter)
	}
}

func TestEngine_ResolveCollision_SeparatingIsNoop(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.NewBody(Vector2D{X: 0, Y: 0}, NewCircle(5), WithVelocity(Vector2D{X: -2, Y: 1}))
	b := e.NewBody(Vector2D{X: 8, Y: 0}, NewCircle(5), WithVelocity(Vector2D{X: 3, Y: -1}))

	result := CheckCircleCollision(a, b)
	va, vb := a.Velocity, b.Velocity

	impulse, applied := e.ResolveCollision(a, b, result)

	if applied || impulse != 0 {
		t.Errorf("Expected no-op, got impulse %v applied %v", impulse, applied)
	}
	if a.Velocity != va || b.Velocity != vb {
		t.Errorf("Velocities changed: %v %v -> %v %v", va, vb, a.Velocity, b.Velocity)
	}
}

func TestEngine_ResolveCollision_NotCollided(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.NewBody(Vector2D{}, NewCircle(1), WithVelocity(Vector2D{X: 1}))
	b := e.NewBody(Vector2D{X: 10}, NewCircle(1))

	if _, applied := e.ResolveCollision(a, b, CollisionResult{}); applied {
		t.Error("Expected no impulse for a non-collision")
	}
}

func TestEngine_ResolveCollision_UsesMinimumRestitution(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.NewBody(Vector2D{X: 0}, NewCircle(5), WithRestitution(0.9), WithVelocity(Vector2D{X: 4}))
	b := e.NewBody(Vector2D{X: 8}, NewCircle(5), WithRestitution(0.2))

	e.ResolveCollision(a, b, CheckCircleCollision(a, b))

	// Relative normal velocity after resolution is e * 4 with e = 0.2.
	after := b.Velocity.Sub(a.Velocity).X
	if !almostEqual(after, 0.8) {
		t.Errorf("Expected separating speed 0.8, got %v", after)
	}
}

func TestEngine_ResolveCollision_EnergyBound(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		name        string
		restitution float64
		massA       float64
		massB       float64
		va          Vector2D
		vb          Vector2D
	}{
		{"inelastic", 0, 1, 1, Vector2D{X: 5}, Vector2D{}},
		{"default", 0.6, 1, 2, Vector2D{X: 5, Y: 1}, Vector2D{X: -1, Y: 0}},
		{"elastic", 1, 3, 0.5, Vector2D{X: 2, Y: 2}, Vector2D{X: -4, Y: 1}},
		{"heavy_target", 0.4, 0.8, 10, Vector2D{X: 12, Y: -3}, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := e.NewBody(Vector2D{X: 0, Y: 0}, NewCircle(5),
				WithMass(tt.massA), WithRestitution(tt.restitution), WithVelocity(tt.va))
			b := e.NewBody(Vector2D{X: 7, Y: 2}, NewCircle(5),
				WithMass(tt.massB), WithRestitution(tt.restitution), WithVelocity(tt.vb))

			result := CheckCircleCollision(a, b)
			before := math.Abs(b.Velocity.Sub(a.Velocity).Dot(result.Normal))
			e.ResolveCollision(a, b, result)
			after := math.Abs(b.Velocity.Sub(a.Velocity).Dot(result.Normal))

			if after > before*tt.restitution+1e-9 {
				t.Errorf("Expected |vn'| <= %v * %v, got %v", before, tt.restitution, after)
			}
		})
	}
}

func TestEngine_SeparateBodies(t *testing.T) {
	e := NewEngine(DefaultConfig())
	a := e.NewBody(Vector2D{X: 100, Y: 100}, NewCircle(20))
	b := e.NewBody(Vector2D{X: 130, Y: 100}, NewCircle(18))

	result := CheckCircleCollision(a, b)
	e.SeparateBodies(a, b, result)

	// correction = (8 - 0.01) / 2 * 0.8
	correction := (8 - SeparationSlop) / 2 * SeparationPercent
	if !almostEqual(a.Position.X, 100-correction) {
		t.Errorf("Expected a.x %v, got %v", 100-correction, a.Position.X)
	}
	if !almostEqual(b.Position.X, 130+correction) {
		t.Errorf("Expected b.x %v, got %v", 130+correction, b.Position.X)
	}
}

func TestEngine_SeparateBodies_NeverIncreasesPenetration(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		name string
		a    *Body
		b    *Body
	}{
		{"circles_equal_mass", circleBody(0, 0, 10), circleBody(12, 5, 10)},
		{"circles_tiny_overlap", circleBody(0, 0, 10), circleBody(19.995, 0, 10)},
		{"circle_rect", circleBody(50, 95, 10), rectBody(40, 100, 20, 20)},
		{"circle_inside_rect", circleBody(50, 110, 10), rectBody(40, 100, 20, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := Detect(tt.a, tt.b)
			if !before.Collided {
				t.Fatal("Expected initial overlap")
			}
			e.SeparateBodies(tt.a, tt.b, before)
			after := Detect(tt.a, tt.b)
			if after.Collided && after.Penetration > before.Penetration+1e-9 {
				t.Errorf("Penetration grew from %v to %v", before.Penetration, after.Penetration)
			}
		})
	}
}

func TestEngine_SeparateBodies_HeavierMovesLess(t *testing.T) {
	e := NewEngine(DefaultConfig())
	light := e.NewBody(Vector2D{X: 0}, NewCircle(10), WithMass(1))
	heavy := e.NewBody(Vector2D{X: 15}, NewCircle(10), WithMass(4))

	e.SeparateBodies(light, heavy, CheckCircleCollision(light, heavy))

	lightMoved := math.Abs(light.Position.X)
	heavyMoved := math.Abs(heavy.Position.X - 15)
	if !almostEqual(lightMoved, heavyMoved*4) {
		t.Errorf("Expected light body to move 4x as far: %v vs %v", lightMoved, heavyMoved)
	}
}

func TestEngine_Resolve_CircleRect(t *testing.T) {
	e := NewEngine(DefaultConfig())
	bird := e.NewBody(Vector2D{X: 35, Y: 110}, NewCircle(10), WithVelocity(Vector2D{X: 6, Y: 0}))
	block := e.NewBody(Vector2D{X: 40, Y: 100}, NewRect(20, 20), WithRestitution(0.3), WithMass(1))

	contact := e.Resolve(bird, block, Detect(bird, block))

	if !contact.Applied {
		t.Fatal("Expected impulse to be applied")
	}
	if bird.Velocity.X >= 6 {
		t.Errorf("Expected bird to slow down, got vx %v", bird.Velocity.X)
	}
	if block.Velocity.X <= 0 {
		t.Errorf("Expected block to be pushed right, got vx %v", block.Velocity.X)
	}
	if bird.Position.X >= 35 {
		t.Errorf("Expected bird to be pushed back out of the block, got x %v", bird.Position.X)
	}
}

func BenchmarkEngine_Resolve(b *testing.B) {
	e := NewEngine(DefaultConfig())
	for i := 0; i < b.N; i++ {
		x := circleBody(0, 0, 5)
		x.Velocity = Vector2D{X: 3}
		y := circleBody(8, 0, 5)
		e.Resolve(x, y, CheckCircleCollision(x, y))
	}
}
