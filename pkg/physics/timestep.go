// pkg/physics/timestep.go
package physics

import (
	"math"
	"time"
)

// Frame timing. The engine constants are tuned per tick, where a tick is one
// frame at 60 FPS. Frames longer than MaxFrameDelta are treated as if they
// took MaxFrameDelta so a stalled or backgrounded loop does not blow up.
const (
	TickDuration  = 16670 * time.Microsecond
	MaxFrameDelta = 32 * time.Millisecond
)

// FrameClock converts wall-clock frame deltas into whole simulation ticks.
// Fractions of a tick carry over to the next frame.
type FrameClock struct {
	pending float64
}

// CapDelta clamps a raw frame delta into [0, MaxFrameDelta].
func CapDelta(elapsed time.Duration) time.Duration {
	if elapsed < 0 {
		return 0
	}
	if elapsed > MaxFrameDelta {
		return MaxFrameDelta
	}
	return elapsed
}

// NormalizeDelta expresses a capped frame delta in ticks.
func NormalizeDelta(elapsed time.Duration) float64 {
	return float64(CapDelta(elapsed)) / float64(TickDuration)
}

// Advance records a frame delta and returns how many ticks to run now.
func (c *FrameClock) Advance(elapsed time.Duration) int {
	c.pending += NormalizeDelta(elapsed)
	ticks := math.Floor(c.pending)
	c.pending -= ticks
	return int(ticks)
}

// Reset drops any carried-over time.
func (c *FrameClock) Reset() {
	c.pending = 0
}
