// pkg/physics/rest.go
package physics

import "math"

// IsAtRest reports whether both velocity components are below threshold.
// A component that is exactly zero always counts as resting, so a motionless
// body is at rest for any threshold >= 0.
func IsAtRest(b *Body, threshold float64) bool {
	return settled(b.Velocity.X, threshold) && settled(b.Velocity.Y, threshold)
}

func settled(v, threshold float64) bool {
	return v == 0 || math.Abs(v) < threshold
}

// IsAtRest applies the configured rest threshold.
func (e *Engine) IsAtRest(b *Body) bool {
	return IsAtRest(b, e.cfg.RestThreshold)
}

// AllAtRest reports whether every body is at rest. An empty set is at rest.
func (e *Engine) AllAtRest(bodies []*Body) bool {
	for _, b := range bodies {
		if !e.IsAtRest(b) {
			return false
		}
	}
	return true
}
