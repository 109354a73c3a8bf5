// pkg/engine/autopilot.go
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Behavior selects how the autopilot picks its shots
type Behavior int

const (
	BehaviorSniper   Behavior = iota // Aims the predicted arc at the nearest pig
	BehaviorScatter                  // Fires random pulls
	BehaviorDemolish                 // Aims at the heaviest structure
)

// ParseBehavior maps a behavior name to a Behavior.
func ParseBehavior(name string) (Behavior, error) {
	switch name {
	case "sniper":
		return BehaviorSniper, nil
	case "scatter":
		return BehaviorScatter, nil
	case "demolish":
		return BehaviorDemolish, nil
	default:
		return 0, fmt.Errorf("unknown autopilot behavior: %s", name)
	}
}

func (b Behavior) String() string {
	switch b {
	case BehaviorSniper:
		return "sniper"
	case BehaviorScatter:
		return "scatter"
	case BehaviorDemolish:
		return "demolish"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// Autopilot search grid over pull angle and distance.
const (
	pilotAngleSteps = 36
	pilotPowerSteps = 8
	pilotMinAngle   = math.Pi / 2 * 0.05 // flat shot
	pilotMaxAngle   = math.Pi / 2 * 0.95 // lob
	pilotJitter     = 6.0
)

// Autopilot plays a Simulation without human input.
type Autopilot struct {
	behavior Behavior
	random   *rand.Rand
}

// NewAutopilot creates an autopilot. seed makes its jitter reproducible.
func NewAutopilot(behavior Behavior, seed uint64) *Autopilot {
	return &Autopilot{
		behavior: behavior,
		random:   rand.New(rand.NewPCG(seed, uint64(behavior))),
	}
}

// Behavior returns the configured behavior.
func (p *Autopilot) Behavior() Behavior { return p.behavior }

// PlanShot returns a pull point for the bird on the slingshot. ok is false
// when no bird is ready or there is nothing to aim at.
func (p *Autopilot) PlanShot(sim *Simulation) (physics.Vector2D, bool) {
	if sim.ActiveBird() == nil || sim.Status() != StatusPlaying {
		return physics.Vector2D{}, false
	}

	anchor := sim.cfg.World.Slingshot()
	maxDrag := sim.engine.Config().MaxDragDistance

	if p.behavior == BehaviorScatter {
		angle := pilotMinAngle + p.random.Float64()*(pilotMaxAngle-pilotMinAngle)
		distance := maxDrag * (0.3 + 0.7*p.random.Float64())
		return pullAt(anchor, angle, distance), true
	}

	target, ok := p.target(sim)
	if !ok {
		return physics.Vector2D{}, false
	}

	best := math.Inf(1)
	var bestPull physics.Vector2D
	for i := 0; i <= pilotAngleSteps; i++ {
		angle := pilotMinAngle + (pilotMaxAngle-pilotMinAngle)*float64(i)/pilotAngleSteps
		for j := 1; j <= pilotPowerSteps; j++ {
			pull := pullAt(anchor, angle, maxDrag*float64(j)/pilotPowerSteps)
			miss, ok := closestApproach(sim, pull, target)
			if ok && miss < best {
				best = miss
				bestPull = pull
			}
		}
	}
	if math.IsInf(best, 1) {
		return physics.Vector2D{}, false
	}

	bestPull.X += (p.random.Float64() - 0.5) * pilotJitter
	bestPull.Y += (p.random.Float64() - 0.5) * pilotJitter
	return bestPull, true
}

// Fire plans and launches one shot.
func (p *Autopilot) Fire(sim *Simulation) error {
	pull, ok := p.PlanShot(sim)
	if !ok {
		return ErrNoBirdReady
	}
	return sim.Launch(pull)
}

func (p *Autopilot) target(sim *Simulation) (physics.Vector2D, bool) {
	switch p.behavior {
	case BehaviorDemolish:
		var heaviest *entity.Actor
		for _, s := range sim.Structures() {
			if heaviest == nil || s.Body.Mass > heaviest.Body.Mass {
				heaviest = s
			}
		}
		if heaviest != nil {
			return heaviest.Body.Center(), true
		}
		fallthrough
	default:
		anchor := sim.cfg.World.Slingshot()
		var nearest *entity.Actor
		for _, pig := range sim.Pigs() {
			if nearest == nil || pig.Body.Position.Distance(anchor) < nearest.Body.Position.Distance(anchor) {
				nearest = pig
			}
		}
		if nearest == nil {
			return physics.Vector2D{}, false
		}
		return nearest.Body.Position, true
	}
}

// pullAt returns a pull point behind and below the anchor. angle is measured
// from the backward horizontal.
func pullAt(anchor physics.Vector2D, angle, distance float64) physics.Vector2D {
	return physics.Vector2D{
		X: anchor.X - math.Cos(angle)*distance,
		Y: anchor.Y + math.Sin(angle)*distance,
	}
}

func closestApproach(sim *Simulation, pull, target physics.Vector2D) (float64, bool) {
	anchor := sim.cfg.World.Slingshot()
	velocity, ok := sim.engine.LaunchVelocity(anchor, pull)
	if !ok {
		return 0, false
	}
	start := sim.engine.ClampDrag(anchor, pull)

	best := math.Inf(1)
	for point := range sim.engine.Trajectory(start, velocity, 4*physics.DefaultTrajectorySteps) {
		best = math.Min(best, point.Distance(target))
	}
	return best, !math.IsInf(best, 1)
}
