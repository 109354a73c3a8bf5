// pkg/physics/config.go
package physics

import "fmt"

// Positional correction tuning. A small slop keeps resting contacts from
// jittering and the percent leaves some overlap for the next step.
const (
	SeparationSlop    = 0.01
	SeparationPercent = 0.8
)

// Trajectory lengths used by the predictor.
const (
	DefaultTrajectorySteps = 30
	AimPreviewSteps        = 40
)

// Config holds the tunables of the physics engine. A Config is passed to
// NewEngine once and never read from ambient state afterwards.
type Config struct {
	Gravity          float64 `json:"gravity"`
	AirResistance    float64 `json:"airResistance"`
	GroundFriction   float64 `json:"groundFriction"`
	Restitution      float64 `json:"restitution"`
	GroundY          float64 `json:"groundY"`
	PredictionFloorY float64 `json:"predictionFloorY"`
	MaxDragDistance  float64 `json:"maxDragDistance"`
	RestThreshold    float64 `json:"restThreshold"`

	// Launch mapping from a slingshot pull to an initial velocity.
	LaunchPowerScale float64 `json:"launchPowerScale"`
	MaxLaunchSpeed   float64 `json:"maxLaunchSpeed"`
	MinLaunchPower   float64 `json:"minLaunchPower"`
}

// DefaultConfig returns the engine constants the game is balanced around.
func DefaultConfig() Config {
	return Config{
		Gravity:          0.6,
		AirResistance:    0.99,
		GroundFriction:   0.95,
		Restitution:      0.6,
		GroundY:          680,
		PredictionFloorY: 700,
		MaxDragDistance:  400,
		RestThreshold:    0.1,
		LaunchPowerScale: 0.35,
		MaxLaunchSpeed:   50,
		MinLaunchPower:   10,
	}
}

// Validate checks that every tunable is inside the range the engine assumes.
func (c Config) Validate() error {
	switch {
	case c.Gravity < 0:
		return fmt.Errorf("gravity must be non-negative, got %v", c.Gravity)
	case c.AirResistance <= 0 || c.AirResistance > 1:
		return fmt.Errorf("air resistance must be in (0,1], got %v", c.AirResistance)
	case c.GroundFriction <= 0 || c.GroundFriction > 1:
		return fmt.Errorf("ground friction must be in (0,1], got %v", c.GroundFriction)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("restitution must be in [0,1], got %v", c.Restitution)
	case c.MaxDragDistance <= 0:
		return fmt.Errorf("max drag distance must be positive, got %v", c.MaxDragDistance)
	case c.RestThreshold < 0:
		return fmt.Errorf("rest threshold must be non-negative, got %v", c.RestThreshold)
	case c.LaunchPowerScale <= 0:
		return fmt.Errorf("launch power scale must be positive, got %v", c.LaunchPowerScale)
	case c.MaxLaunchSpeed <= 0:
		return fmt.Errorf("max launch speed must be positive, got %v", c.MaxLaunchSpeed)
	case c.MinLaunchPower < 0:
		return fmt.Errorf("min launch power must be non-negative, got %v", c.MinLaunchPower)
	}
	return nil
}
