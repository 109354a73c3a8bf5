// pkg/entity/entity.go
package entity

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Kind classifies actors by their role in a level
type Kind int

const (
	KindBird Kind = iota
	KindPig
	KindStructure
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindBird:
		return "bird"
	case KindPig:
		return "pig"
	case KindStructure:
		return "structure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Actor is a bird, pig or structure. Its identity comes from the ECS so the
// same actor can be tracked by render systems.
type Actor struct {
	ecs.BasicEntity

	Kind    Kind
	Variant string
	Name    string
	Color   string
	Accent  string
	Ability string

	Body *physics.Body

	Health    int
	MaxHealth int
	Damage    int
	Points    int

	Launched  bool
	Destroyed bool
}

// Position returns the body position. Circles are centred, rectangles are
// anchored at their top-left corner.
func (a *Actor) Position() physics.Vector2D {
	return a.Body.Position
}

// TakeDamage subtracts n from the actor's health and reports whether the
// actor is now destroyed. Birds cannot be damaged.
func (a *Actor) TakeDamage(n int) bool {
	if a.Kind == KindBird || a.Destroyed {
		return a.Destroyed
	}
	a.Health -= n
	if a.Health <= 0 {
		a.Health = 0
		a.Destroyed = true
	}
	return a.Destroyed
}

// HealthFraction returns remaining health in [0, 1]. Actors without a health
// pool report 1.
func (a *Actor) HealthFraction() float64 {
	if a.MaxHealth <= 0 {
		return 1
	}
	return float64(a.Health) / float64(a.MaxHealth)
}

// GroundResponse returns how the actor reacts to the ground line. Birds have
// no ground response; they are removed once they leave the field.
func (a *Actor) GroundResponse() (physics.GroundResponse, bool) {
	switch a.Kind {
	case KindPig:
		return physics.PigGround, true
	case KindStructure:
		return physics.StructureGround, true
	default:
		return physics.GroundResponse{}, false
	}
}

// Render draws the actor through r.
func (a *Actor) Render(r Renderer) {
	r.RenderActor(a)
}

func (a *Actor) String() string {
	return fmt.Sprintf("%s(%s#%d)", a.Kind, a.Variant, a.ID())
}
