// pkg/arcade/aim.go
package arcade

import (
	"math"

	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Aim limits and step sizes for keyboard aiming
const (
	MinAngle     = -20.0
	MaxAngle     = 85.0
	AngleStep    = 2.5
	MinPower     = 0.1
	MaxPower     = 1.0
	PowerStep    = 0.05
	defaultAngle = 45.0
	defaultPower = 0.7
)

// Aim is a keyboard-driven slingshot pull. Angle is the launch direction in
// degrees above the horizontal and Power the fraction of the maximum drag.
type Aim struct {
	Angle float64
	Power float64
}

// DefaultAim returns the aim a new session starts with.
func DefaultAim() Aim {
	return Aim{Angle: defaultAngle, Power: defaultPower}
}

// Apply returns the aim after an aiming command. Other commands leave it
// unchanged.
func (a Aim) Apply(cmd Command) Aim {
	switch cmd {
	case CommandAimUp:
		a.Angle = math.Min(a.Angle+AngleStep, MaxAngle)
	case CommandAimDown:
		a.Angle = math.Max(a.Angle-AngleStep, MinAngle)
	case CommandPowerUp:
		a.Power = math.Min(a.Power+PowerStep, MaxPower)
	case CommandPowerDown:
		a.Power = math.Max(a.Power-PowerStep, MinPower)
	}
	return a
}

// Pull converts the aim into a pull point behind anchor. Screen y grows
// downward, so an upward launch pulls the bird down and back.
func (a Aim) Pull(anchor physics.Vector2D, maxDrag float64) physics.Vector2D {
	rad := a.Angle * math.Pi / 180
	distance := a.Power * maxDrag
	return physics.Vector2D{
		X: anchor.X - math.Cos(rad)*distance,
		Y: anchor.Y + math.Sin(rad)*distance,
	}
}
