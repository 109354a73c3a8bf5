// pkg/physics/ground_test.go
package physics

import "testing"

func TestEngine_ResolveGround(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		name      string
		body      *Body
		resp      GroundResponse
		contact   bool
		expectedY float64
		expectedV Vector2D
	}{
		{
			name:      "above_ground",
			body:      circleBody(100, 600, 20),
			resp:      PigGround,
			contact:   false,
			expectedY: 600,
		},
		{
			name:      "pig_bounces",
			body:      &Body{Position: Vector2D{X: 0, Y: 665}, Velocity: Vector2D{X: 2, Y: 3}, Shape: NewCircle(20), Mass: 1},
			resp:      PigGround,
			contact:   true,
			expectedY: 660,
			expectedV: Vector2D{X: 1.6, Y: -1.5},
		},
		{
			name:      "pig_snaps_to_rest",
			body:      &Body{Position: Vector2D{X: 0, Y: 665}, Velocity: Vector2D{X: 0.05, Y: 1.5}, Shape: NewCircle(20), Mass: 1},
			resp:      PigGround,
			contact:   true,
			expectedY: 660,
			expectedV: Vector2D{},
		},
		{
			name:      "structure_bounces",
			body:      &Body{Position: Vector2D{X: 0, Y: 630}, Velocity: Vector2D{X: 5, Y: 10}, Shape: NewRect(20, 60), Mass: 1},
			resp:      StructureGround,
			contact:   true,
			expectedY: 620,
			expectedV: Vector2D{X: 3.5, Y: -3},
		},
		{
			name:      "default_friction",
			body:      &Body{Position: Vector2D{X: 0, Y: 670}, Velocity: Vector2D{X: 10, Y: 4}, Shape: NewCircle(20), Mass: 1},
			resp:      GroundResponse{Bounce: -0.5, SnapThreshold: 0.5},
			contact:   true,
			expectedY: 660,
			expectedV: Vector2D{X: 9.5, Y: -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := e.ResolveGround(tt.body, tt.resp)
			if contact != tt.contact {
				t.Fatalf("Expected contact %v, got %v", tt.contact, contact)
			}
			if !almostEqual(tt.body.Position.Y, tt.expectedY) {
				t.Errorf("Expected y %v, got %v", tt.expectedY, tt.body.Position.Y)
			}
			if !tt.contact {
				return
			}
			if !almostEqual(tt.body.Velocity.X, tt.expectedV.X) || !almostEqual(tt.body.Velocity.Y, tt.expectedV.Y) {
				t.Errorf("Expected velocity %v, got %v", tt.expectedV, tt.body.Velocity)
			}
		})
	}
}

func TestEngine_GroundContact_ConvergesToRest(t *testing.T) {
	e := NewEngine(DefaultConfig())
	// Sitting exactly on the ground with a small bounce left over.
	b := e.NewBody(Vector2D{X: 300, Y: 670}, NewCircle(10), WithVelocity(Vector2D{X: 0.05, Y: 0.4}))

	e.Integrate(b)
	if !e.ResolveGround(b, PigGround) {
		t.Fatal("Expected ground contact")
	}

	if b.Velocity.Y != 0 {
		t.Errorf("Expected vy snapped to 0, got %v", b.Velocity.Y)
	}
	if !e.IsAtRest(b) {
		t.Errorf("Expected body at rest, velocity %v", b.Velocity)
	}
	if !almostEqual(b.Bottom(), 680) {
		t.Errorf("Expected body resting on ground line, bottom %v", b.Bottom())
	}
}

func TestEngine_GroundContact_DropSettles(t *testing.T) {
	e := NewEngine(DefaultConfig())
	b := e.NewBody(Vector2D{X: 300, Y: 400}, NewCircle(20), WithVelocity(Vector2D{X: 3}))

	for tick := 0; tick < 600; tick++ {
		if !e.IntegrateMoving(b) {
			break
		}
		e.ResolveGround(b, PigGround)
	}

	if !b.Velocity.IsZero() {
		t.Errorf("Expected body to settle to exact rest, got %v", b.Velocity)
	}
	if b.Bottom() > 680+1e-9 {
		t.Errorf("Body sank below ground: bottom %v", b.Bottom())
	}
}
