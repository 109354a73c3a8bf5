// pkg/entity/factory.go
package entity

import (
	"github.com/EngoEngine/ecs"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Bird variants
const (
	BirdRed    = "red"
	BirdBlue   = "blue"
	BirdYellow = "yellow"
	BirdBlack  = "black"
	BirdWhite  = "white"
)

// Pig variants
const (
	PigSmall  = "small"
	PigMedium = "medium"
	PigLarge  = "large"
	PigKing   = "king"
)

// Structure materials
const (
	MaterialWood  = "wood"
	MaterialStone = "stone"
	MaterialIce   = "ice"
	MaterialTNT   = "tnt"
)

type birdStats struct {
	name        string
	radius      float64
	mass        float64
	restitution float64
	damage      int
	color       string
	accent      string
	ability     string
}

type pigStats struct {
	name   string
	radius float64
	mass   float64
	health int
	color  string
}

type materialStats struct {
	name        string
	mass        float64
	restitution float64
	color       string
	accent      string
}

var birdCatalog = map[string]birdStats{
	BirdRed:    {"Red", 20, 1, 0.6, 50, "#FF0000", "#CC0000", "none"},
	BirdBlue:   {"The Blues", 16, 0.6, 0.5, 30, "#4169E1", "#1E3A8A", "split"},
	BirdYellow: {"Chuck", 18, 0.8, 0.7, 70, "#FFD700", "#FFA500", "speed"},
	BirdBlack:  {"Bomb", 24, 2, 0.3, 100, "#2C2C2C", "#000000", "explode"},
	BirdWhite:  {"Matilda", 22, 1.2, 0.5, 60, "#FFFFFF", "#E8E8E8", "egg"},
}

var pigCatalog = map[string]pigStats{
	PigSmall:  {"Minion Pig", 18, 0.8, 50, "#90EE90"},
	PigMedium: {"Corporal Pig", 22, 1.2, 100, "#7CFC00"},
	PigLarge:  {"Foreman Pig", 26, 1.8, 150, "#32CD32"},
	PigKing:   {"King Pig", 30, 2.5, 250, "#228B22"},
}

var materialCatalog = map[string]materialStats{
	MaterialWood:  {"Wood", 1, 0.3, "#8B4513", "#654321"},
	MaterialStone: {"Stone", 3, 0.2, "#696969", "#505050"},
	MaterialIce:   {"Ice", 0.5, 0.9, "#87CEEB", "#B0E0E6"},
	MaterialTNT:   {"TNT", 1.5, 0.4, "#DC143C", "#8B0000"},
}

// IsBirdVariant reports whether variant names a known bird.
func IsBirdVariant(variant string) bool {
	_, ok := birdCatalog[variant]
	return ok
}

// IsPigVariant reports whether variant names a known pig.
func IsPigVariant(variant string) bool {
	_, ok := pigCatalog[variant]
	return ok
}

// IsMaterial reports whether material names a known structure material.
func IsMaterial(material string) bool {
	_, ok := materialCatalog[material]
	return ok
}

// Factory builds actors with bodies from the given engine.
type Factory struct {
	engine *physics.Engine
}

// NewFactory creates a factory bound to engine
func NewFactory(engine *physics.Engine) *Factory {
	return &Factory{engine: engine}
}

// NewBird creates a bird centred on pos. Unknown variants become red birds.
func (f *Factory) NewBird(variant string, pos physics.Vector2D) *Actor {
	stats, ok := birdCatalog[variant]
	if !ok {
		variant, stats = BirdRed, birdCatalog[BirdRed]
	}

	return &Actor{
		BasicEntity: ecs.NewBasic(),
		Kind:        KindBird,
		Variant:     variant,
		Name:        stats.name,
		Color:       stats.color,
		Accent:      stats.accent,
		Ability:     stats.ability,
		Body: f.engine.NewBody(pos, physics.NewCircle(stats.radius),
			physics.WithMass(stats.mass),
			physics.WithRestitution(stats.restitution)),
		Damage: stats.damage,
	}
}

// NewPig creates a pig centred on pos worth points when destroyed. Unknown
// variants become small pigs.
func (f *Factory) NewPig(variant string, pos physics.Vector2D, points int) *Actor {
	stats, ok := pigCatalog[variant]
	if !ok {
		variant, stats = PigSmall, pigCatalog[PigSmall]
	}

	return &Actor{
		BasicEntity: ecs.NewBasic(),
		Kind:        KindPig,
		Variant:     variant,
		Name:        stats.name,
		Color:       stats.color,
		Accent:      stats.color,
		Body: f.engine.NewBody(pos, physics.NewCircle(stats.radius),
			physics.WithMass(stats.mass)),
		Health:    stats.health,
		MaxHealth: stats.health,
		Points:    points,
	}
}

// NewStructure creates a block with its top-left corner at pos. Unknown
// materials become wood.
func (f *Factory) NewStructure(material string, pos physics.Vector2D, width, height float64, health int) *Actor {
	stats, ok := materialCatalog[material]
	if !ok {
		material, stats = MaterialWood, materialCatalog[MaterialWood]
	}

	return &Actor{
		BasicEntity: ecs.NewBasic(),
		Kind:        KindStructure,
		Variant:     material,
		Name:        stats.name,
		Color:       stats.color,
		Accent:      stats.accent,
		Body: f.engine.NewBody(pos, physics.NewRect(width, height),
			physics.WithMass(stats.mass),
			physics.WithRestitution(stats.restitution)),
		Health:    health,
		MaxHealth: health,
	}
}
