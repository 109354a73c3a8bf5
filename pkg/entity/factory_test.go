// pkg/entity/factory_test.go
package entity

import (
	"testing"

	"github.com/opd-ai/go-slingshot/pkg/physics"
)

func TestFactory_NewBird(t *testing.T) {
	f := newTestFactory()
	pos := physics.Vector2D{X: 150, Y: 600}

	tests := []struct {
		variant         string
		expectedVariant string
		radius          float64
		mass            float64
		restitution     float64
		damage          int
	}{
		{BirdRed, BirdRed, 20, 1, 0.6, 50},
		{BirdBlue, BirdBlue, 16, 0.6, 0.5, 30},
		{BirdYellow, BirdYellow, 18, 0.8, 0.7, 70},
		{BirdBlack, BirdBlack, 24, 2, 0.3, 100},
		{BirdWhite, BirdWhite, 22, 1.2, 0.5, 60},
		{"purple", BirdRed, 20, 1, 0.6, 50},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			bird := f.NewBird(tt.variant, pos)

			if bird.Kind != KindBird {
				t.Errorf("Expected KindBird, got %v", bird.Kind)
			}
			if bird.Variant != tt.expectedVariant {
				t.Errorf("Expected variant %s, got %s", tt.expectedVariant, bird.Variant)
			}
			if !bird.Body.IsCircle() || bird.Body.Shape.Radius != tt.radius {
				t.Errorf("Expected circle radius %v, got %+v", tt.radius, bird.Body.Shape)
			}
			if bird.Body.Mass != tt.mass {
				t.Errorf("Expected mass %v, got %v", tt.mass, bird.Body.Mass)
			}
			if bird.Body.Restitution != tt.restitution {
				t.Errorf("Expected restitution %v, got %v", tt.restitution, bird.Body.Restitution)
			}
			if bird.Damage != tt.damage {
				t.Errorf("Expected damage %d, got %d", tt.damage, bird.Damage)
			}
			if bird.Body.Position != pos || !bird.Body.Velocity.IsZero() {
				t.Errorf("Expected resting bird at %v, got %+v", pos, bird.Body)
			}
			if bird.Launched || bird.Destroyed {
				t.Error("New bird should be neither launched nor destroyed")
			}
		})
	}
}

func TestFactory_NewPig(t *testing.T) {
	f := newTestFactory()

	tests := []struct {
		variant         string
		expectedVariant string
		radius          float64
		mass            float64
		health          int
	}{
		{PigSmall, PigSmall, 18, 0.8, 50},
		{PigMedium, PigMedium, 22, 1.2, 100},
		{PigLarge, PigLarge, 26, 1.8, 150},
		{PigKing, PigKing, 30, 2.5, 250},
		{"giant", PigSmall, 18, 0.8, 50},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			pig := f.NewPig(tt.variant, physics.Vector2D{X: 750, Y: 540}, 500)

			if pig.Kind != KindPig || pig.Variant != tt.expectedVariant {
				t.Errorf("Expected pig %s, got %v %s", tt.expectedVariant, pig.Kind, pig.Variant)
			}
			if pig.Body.Shape.Radius != tt.radius || pig.Body.Mass != tt.mass {
				t.Errorf("Expected radius %v mass %v, got %+v", tt.radius, tt.mass, pig.Body)
			}
			if pig.Health != tt.health || pig.MaxHealth != tt.health {
				t.Errorf("Expected health %d, got %d/%d", tt.health, pig.Health, pig.MaxHealth)
			}
			if pig.Points != 500 {
				t.Errorf("Expected 500 points, got %d", pig.Points)
			}
			if pig.Body.Restitution != 0.6 {
				t.Errorf("Expected default restitution 0.6, got %v", pig.Body.Restitution)
			}
		})
	}
}

func TestFactory_NewStructure(t *testing.T) {
	f := newTestFactory()

	tests := []struct {
		material         string
		expectedMaterial string
		mass             float64
		restitution      float64
	}{
		{MaterialWood, MaterialWood, 1, 0.3},
		{MaterialStone, MaterialStone, 3, 0.2},
		{MaterialIce, MaterialIce, 0.5, 0.9},
		{MaterialTNT, MaterialTNT, 1.5, 0.4},
		{"glass", MaterialWood, 1, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			block := f.NewStructure(tt.material, physics.Vector2D{X: 700, Y: 620}, 20, 60, 80)

			if block.Kind != KindStructure || block.Variant != tt.expectedMaterial {
				t.Errorf("Expected structure %s, got %v %s", tt.expectedMaterial, block.Kind, block.Variant)
			}
			if !block.Body.IsRect() || block.Body.Shape.Width != 20 || block.Body.Shape.Height != 60 {
				t.Errorf("Expected 20x60 rect, got %+v", block.Body.Shape)
			}
			if block.Body.Mass != tt.mass || block.Body.Restitution != tt.restitution {
				t.Errorf("Expected mass %v restitution %v, got %+v", tt.mass, tt.restitution, block.Body)
			}
			if block.Health != 80 || block.MaxHealth != 80 {
				t.Errorf("Expected health 80, got %d/%d", block.Health, block.MaxHealth)
			}
			if block.Body.Bottom() != 680 {
				t.Errorf("Expected block resting on ground, bottom %v", block.Body.Bottom())
			}
		})
	}
}

func TestVariantLookups(t *testing.T) {
	if !IsBirdVariant(BirdWhite) || IsBirdVariant("purple") {
		t.Error("IsBirdVariant returned wrong result")
	}
	if !IsPigVariant(PigKing) || IsPigVariant("giant") {
		t.Error("IsPigVariant returned wrong result")
	}
	if !IsMaterial(MaterialTNT) || IsMaterial("glass") {
		t.Error("IsMaterial returned wrong result")
	}
}
