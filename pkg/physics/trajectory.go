// pkg/physics/trajectory.go
package physics

import (
	"iter"
	"slices"
)

// Trajectory returns the predicted flight path of a body launched from start
// with the given velocity. The sequence is lazy and restartable: each range
// over it simulates again from the start. It yields at most steps points
// (DefaultTrajectorySteps when steps <= 0) and stops early once the path
// drops below PredictionFloorY. The first point is always start.
func (e *Engine) Trajectory(start, velocity Vector2D, steps int) iter.Seq[Vector2D] {
	if steps <= 0 {
		steps = DefaultTrajectorySteps
	}
	return func(yield func(Vector2D) bool) {
		ghost := Body{Position: start, Velocity: velocity}
		for i := 0; i < steps; i++ {
			if !yield(ghost.Position) {
				return
			}
			e.ApplyGravity(&ghost)
			e.ApplyAirResistance(&ghost)
			e.UpdatePosition(&ghost)
			if ghost.Position.Y > e.cfg.PredictionFloorY {
				return
			}
		}
	}
}

// PredictTrajectory collects Trajectory into a slice.
func (e *Engine) PredictTrajectory(start, velocity Vector2D, steps int) []Vector2D {
	return slices.Collect(e.Trajectory(start, velocity, steps))
}
