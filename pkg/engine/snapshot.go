// pkg/engine/snapshot.go
package engine

import (
	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Snapshot represents the current state of a level run for rendering
type Snapshot struct {
	Tick      uint64
	Status    Status
	LevelID   int
	LevelName string
	Slingshot physics.Vector2D
	Actors    []ActorState
	BirdsLeft int
	Score     int
	Stars     int
}

// ActorState contains render information about an actor
type ActorState struct {
	ID       uint64
	Kind     entity.Kind
	Variant  string
	Color    string
	Position physics.Vector2D
	Angle    float64
	Shape    physics.Shape
	Health   float64
	Launched bool
}

// Snapshot copies the render-relevant state. The result shares nothing with
// the simulation.
func (s *Simulation) Snapshot() Snapshot {
	actors := s.Actors()
	snap := Snapshot{
		Tick:      s.tick,
		Status:    s.status,
		LevelID:   s.def.ID,
		LevelName: s.def.Name,
		Slingshot: s.cfg.World.Slingshot(),
		Actors:    make([]ActorState, 0, len(actors)),
		BirdsLeft: len(s.queue),
		Score:     s.score,
		Stars:     s.stars,
	}
	for _, a := range actors {
		snap.Actors = append(snap.Actors, ActorState{
			ID:       a.ID(),
			Kind:     a.Kind,
			Variant:  a.Variant,
			Color:    a.Color,
			Position: a.Body.Position,
			Angle:    a.Body.Angle,
			Shape:    a.Body.Shape,
			Health:   a.HealthFraction(),
			Launched: a.Launched,
		})
	}
	return snap
}

// Render draws every actor through r and, when preview is non-empty, the
// aiming arc.
func (s *Simulation) Render(r entity.Renderer, preview []physics.Vector2D) {
	r.Clear()
	for _, a := range s.Actors() {
		a.Render(r)
	}
	if len(preview) > 0 {
		r.RenderTrajectory(preview)
	}
	r.Present()
}
