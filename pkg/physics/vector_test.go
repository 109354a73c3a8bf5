// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func TestVector2D_Arithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: -1, Y: 2}

	tests := []struct {
		name     string
		result   Vector2D
		expected Vector2D
	}{
		{"add", a.Add(b), Vector2D{X: 2, Y: 6}},
		{"sub", a.Sub(b), Vector2D{X: 4, Y: 2}},
		{"scale", a.Scale(2), Vector2D{X: 6, Y: 8}},
		{"neg", a.Neg(), Vector2D{X: -3, Y: -4}},
		{"normalize", a.Normalize(), Vector2D{X: 0.6, Y: 0.8}},
		{"normalize_zero", Vector2D{}.Normalize(), Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.result.X-tt.expected.X) > 1e-12 || math.Abs(tt.result.Y-tt.expected.Y) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVector2D_Measures(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}

	if v.Length() != 5 {
		t.Errorf("Expected length 5, got %v", v.Length())
	}
	if v.LengthSquared() != 25 {
		t.Errorf("Expected squared length 25, got %v", v.LengthSquared())
	}
	if d := v.Distance(Vector2D{}); d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}
	if dot := v.Dot(Vector2D{X: 1, Y: -1}); dot != -1 {
		t.Errorf("Expected dot -1, got %v", dot)
	}
	if a := (Vector2D{X: 0, Y: 1}).Angle(); math.Abs(a-math.Pi/2) > 1e-12 {
		t.Errorf("Expected angle pi/2, got %v", a)
	}
}

func TestVector2D_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected bool
	}{
		{"finite", Vector2D{X: 1, Y: -2}, true},
		{"nan", Vector2D{X: math.NaN(), Y: 0}, false},
		{"inf", Vector2D{X: 0, Y: math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi, 2)
	if math.Abs(v.X+2) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		t.Errorf("Expected (-2, 0), got %v", v)
	}
}
