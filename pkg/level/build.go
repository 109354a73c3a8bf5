package level

import (
	"fmt"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Placement positions the bird queue relative to the slingshot. Queued birds
// line up to the right of the slingshot; the first one sits on it.
type Placement struct {
	Slingshot    physics.Vector2D
	QueueOffset  float64
	QueueSpacing float64
}

// Layout holds the actors built for one run of a level.
type Layout struct {
	Birds      []*entity.Actor
	Pigs       []*entity.Actor
	Structures []*entity.Actor
}

// Build creates fresh actors for def. Bodies are never shared between calls.
func Build(def *Definition, factory *entity.Factory, at Placement) Layout {
	var layout Layout

	x := at.Slingshot.X + at.QueueOffset
	for _, group := range def.Birds {
		for i := 0; i < group.Count; i++ {
			bird := factory.NewBird(group.Type, physics.Vector2D{X: x, Y: at.Slingshot.Y})
			layout.Birds = append(layout.Birds, bird)
			x += at.QueueSpacing
		}
	}
	if len(layout.Birds) > 0 {
		layout.Birds[0].Body.Position = at.Slingshot
	}

	for _, s := range def.Structures {
		layout.Structures = append(layout.Structures,
			factory.NewStructure(s.Type, physics.Vector2D{X: s.X, Y: s.Y}, s.Width, s.Height, s.Health))
	}
	for _, p := range def.Pigs {
		layout.Pigs = append(layout.Pigs,
			factory.NewPig(p.Type, physics.Vector2D{X: p.X, Y: p.Y}, p.Points))
	}

	return layout
}

// Validate checks every built body, naming the first actor whose body cannot
// take part in collision tests.
func (l Layout) Validate() error {
	for _, group := range [][]*entity.Actor{l.Birds, l.Pigs, l.Structures} {
		for _, a := range group {
			if err := a.Body.Validate(); err != nil {
				return fmt.Errorf("%s: %w", a, err)
			}
		}
	}
	return nil
}
