// pkg/physics/engine.go
package physics

// Engine applies the integrator, resolver, predictor and rest oracle using a
// fixed Config. It holds no per-body state, so one Engine can serve any
// number of simulations.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine bound to cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ApplyGravity accelerates the body downward by one tick of gravity.
func (e *Engine) ApplyGravity(b *Body) {
	b.Velocity.Y += e.cfg.Gravity
}

// ApplyAirResistance damps both velocity components.
func (e *Engine) ApplyAirResistance(b *Body) {
	b.Velocity.X *= e.cfg.AirResistance
	b.Velocity.Y *= e.cfg.AirResistance
}

// ApplyFriction damps horizontal velocity. Only call while the body touches
// the ground.
func (e *Engine) ApplyFriction(b *Body) {
	b.Velocity.X *= e.cfg.GroundFriction
}

// UpdatePosition moves the body by its velocity. Bounds are the caller's
// concern.
func (e *Engine) UpdatePosition(b *Body) {
	b.Position.X += b.Velocity.X
	b.Position.Y += b.Velocity.Y
}

// Integrate advances one tick: gravity, then air resistance, then position.
func (e *Engine) Integrate(b *Body) {
	e.ApplyGravity(b)
	e.ApplyAirResistance(b)
	e.UpdatePosition(b)
	b.Angle += b.AngularVelocity
}

// IntegrateMoving integrates the body only when it has a non-zero velocity
// and reports whether it did. Bodies at exact rest stay put.
func (e *Engine) IntegrateMoving(b *Body) bool {
	if b.Velocity.IsZero() {
		return false
	}
	e.Integrate(b)
	return true
}
