// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/opd-ai/go-slingshot/pkg/config"
	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/event"
	"github.com/opd-ai/go-slingshot/pkg/level"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Scoring constants
const (
	StructurePoints     = 100
	ComboStepPoints     = 100
	UnusedBirdPoints    = 10000
	MaxComboPoints      = 500
	FastClearPoints     = 5000
	QuickClearPoints    = 2000
	FastClearTime       = 30 * time.Second
	QuickClearTime      = 60 * time.Second
	launchSpinMagnitude = 0.3
)

// ErrNoBirdReady is returned by Launch when no bird sits on the slingshot.
var ErrNoBirdReady = errors.New("no bird on the slingshot")

// ErrLevelOver is returned by Launch once the level has been won or lost.
var ErrLevelOver = errors.New("level is over")

// ErrWeakPull is returned by Launch when the pull is too short to fire.
var ErrWeakPull = errors.New("pull too short to launch")

// Simulation owns the actors of one level run and advances them one tick at
// a time. It is not safe for concurrent use; callers drive it from a single
// goroutine.
type Simulation struct {
	cfg     *config.GameConfig
	engine  *physics.Engine
	factory *entity.Factory
	bus     *event.Bus
	logger  *logging.Logger
	ctx     context.Context
	random  *rand.Rand
	seed    uint64

	def *level.Definition

	queue      []*entity.Actor
	flying     []*entity.Actor
	pigs       []*entity.Actor
	structures []*entity.Actor
	loaded     bool
	nextBirdIn int

	clock     physics.FrameClock
	tick      uint64
	status    Status
	graceLeft int

	score               int
	stars               int
	combo               int
	maxCombo            int
	structuresDestroyed int
	pigsDestroyed       int

	removals map[uint64]bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithEventBus publishes game events on bus instead of a private bus.
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// WithContext sets the context used for log correlation.
func WithContext(ctx context.Context) Option {
	return func(s *Simulation) { s.ctx = ctx }
}

// WithSeed makes launch spin reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.seed = seed }
}

// NewSimulation builds a run of def. The definition is copied, so later
// changes to def do not affect the simulation.
func NewSimulation(cfg *config.GameConfig, def *level.Definition, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	engine := physics.NewEngine(cfg.Physics)
	s := &Simulation{
		cfg:      cfg,
		engine:   engine,
		factory:  entity.NewFactory(engine),
		removals: make(map[uint64]bool),
		seed:     uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewEventBus()
	}
	if s.logger == nil {
		s.logger = logging.NewLogger()
	}
	s.logger = s.logger.WithComponent("simulation")
	if s.ctx == nil {
		s.ctx = logging.WithCorrelationID(context.Background(), "")
	}
	s.random = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))

	if err := s.Load(def); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the current run with a fresh run of def.
func (s *Simulation) Load(def *level.Definition) error {
	if def == nil {
		return errors.New("nil level definition")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	clone, err := def.Clone()
	if err != nil {
		return err
	}
	layout := s.build(clone)
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("level %d: %w", clone.ID, err)
	}
	s.def = clone
	s.reset(layout)
	return nil
}

// Restart discards every body and rebuilds the current level.
func (s *Simulation) Restart() {
	s.reset(s.build(s.def))
}

func (s *Simulation) build(def *level.Definition) level.Layout {
	return level.Build(def, s.factory, level.Placement{
		Slingshot:    s.cfg.World.Slingshot(),
		QueueOffset:  s.cfg.World.BirdQueueOffset,
		QueueSpacing: s.cfg.World.BirdQueueSpacing,
	})
}

func (s *Simulation) reset(layout level.Layout) {
	s.queue = layout.Birds
	s.flying = nil
	s.pigs = layout.Pigs
	s.structures = layout.Structures
	s.loaded = len(s.queue) > 0
	s.nextBirdIn = 0

	s.clock.Reset()
	s.tick = 0
	s.status = StatusPlaying
	s.graceLeft = -1
	s.score = 0
	s.stars = 0
	s.combo = 0
	s.maxCombo = 0
	s.structuresDestroyed = 0
	s.pigsDestroyed = 0
	clear(s.removals)

	s.logger.Info(s.ctx, "level started",
		"level_id", s.def.ID,
		"level_name", s.def.Name,
		"birds", len(s.queue),
		"pigs", len(s.pigs),
		"structures", len(s.structures))
	s.bus.Publish(event.NewLevelEvent(event.LevelStarted, s, s.def.ID, s.def.Name, 0, 0))
}

// Engine returns the physics engine used by the simulation.
func (s *Simulation) Engine() *physics.Engine { return s.engine }

// EventBus returns the bus game events are published on.
func (s *Simulation) EventBus() *event.Bus { return s.bus }

// Level returns the definition being played.
func (s *Simulation) Level() *level.Definition { return s.def }

// Status returns the run outcome so far.
func (s *Simulation) Status() Status { return s.status }

// Tick returns the number of ticks simulated since the level started.
func (s *Simulation) Tick() uint64 { return s.tick }

// Score returns the current score.
func (s *Simulation) Score() int { return s.score }

// Stars returns the stars earned; zero until the level is won.
func (s *Simulation) Stars() int { return s.stars }

// BirdsLeft returns the number of birds not yet launched.
func (s *Simulation) BirdsLeft() int { return len(s.queue) }

// Pigs returns the remaining pigs. The slice must not be modified.
func (s *Simulation) Pigs() []*entity.Actor { return s.pigs }

// Structures returns the remaining structures. The slice must not be modified.
func (s *Simulation) Structures() []*entity.Actor { return s.structures }

// Flying returns launched birds still on the field. The slice must not be
// modified.
func (s *Simulation) Flying() []*entity.Actor { return s.flying }

// ActiveBird returns the bird on the slingshot, or nil.
func (s *Simulation) ActiveBird() *entity.Actor {
	if !s.loaded || len(s.queue) == 0 {
		return nil
	}
	return s.queue[0]
}

// Actors returns every actor that should be drawn, in draw order:
// structures, pigs, queued birds, then flying birds.
func (s *Simulation) Actors() []*entity.Actor {
	out := make([]*entity.Actor, 0, len(s.structures)+len(s.pigs)+len(s.queue)+len(s.flying))
	out = append(out, s.structures...)
	out = append(out, s.pigs...)
	out = append(out, s.queue...)
	out = append(out, s.flying...)
	return out
}

// Aim moves the bird on the slingshot to the clamped pull point and returns
// the predicted flight path. It returns nil when no bird is ready or the
// pull is too short to launch.
func (s *Simulation) Aim(pull physics.Vector2D) []physics.Vector2D {
	bird := s.ActiveBird()
	if bird == nil || s.status != StatusPlaying {
		return nil
	}
	bird.Body.Position = s.engine.ClampDrag(s.cfg.World.Slingshot(), pull)
	return s.AimPreview(pull)
}

// CancelAim returns the bird on the slingshot to the anchor.
func (s *Simulation) CancelAim() {
	if bird := s.ActiveBird(); bird != nil {
		bird.Body.Position = s.cfg.World.Slingshot()
	}
}

// AimPreview predicts the flight of a bird released from pull without
// touching any body.
func (s *Simulation) AimPreview(pull physics.Vector2D) []physics.Vector2D {
	anchor := s.cfg.World.Slingshot()
	velocity, ok := s.engine.LaunchVelocity(anchor, pull)
	if !ok {
		return nil
	}
	start := s.engine.ClampDrag(anchor, pull)
	return s.engine.PredictTrajectory(start, velocity, s.cfg.Rules.AimPreviewSteps)
}

// Launch releases the bird on the slingshot from pull. A pull shorter than
// the minimum launch power snaps the bird back and returns ErrWeakPull.
func (s *Simulation) Launch(pull physics.Vector2D) error {
	if s.status != StatusPlaying {
		return ErrLevelOver
	}
	bird := s.ActiveBird()
	if bird == nil {
		return ErrNoBirdReady
	}

	anchor := s.cfg.World.Slingshot()
	velocity, ok := s.engine.LaunchVelocity(anchor, pull)
	if !ok {
		bird.Body.Position = anchor
		return ErrWeakPull
	}

	bird.Body.Position = s.engine.ClampDrag(anchor, pull)
	bird.Body.Velocity = velocity
	bird.Body.AngularVelocity = (s.random.Float64() - 0.5) * launchSpinMagnitude
	bird.Launched = true

	s.queue = s.queue[1:]
	s.flying = append(s.flying, bird)
	s.loaded = false
	if len(s.queue) > 0 {
		s.nextBirdIn = s.cfg.Rules.NextBirdDelayTicks
		if s.nextBirdIn == 0 {
			s.loadNextBird()
		}
	}

	s.logger.Info(s.ctx, "bird launched",
		"bird", bird.Variant,
		"vx", velocity.X,
		"vy", velocity.Y,
		"birds_left", len(s.queue))
	s.bus.Publish(event.NewActorEvent(event.ActorLaunched, s, bird.ID(), bird.Kind.String(), bird.Variant, 0))
	return nil
}

func (s *Simulation) loadNextBird() {
	if len(s.queue) == 0 {
		return
	}
	bird := s.queue[0]
	bird.Body.Position = s.cfg.World.Slingshot()
	s.loaded = true
	s.nextBirdIn = 0
	s.bus.Publish(event.NewActorEvent(event.BirdReady, s, bird.ID(), bird.Kind.String(), bird.Variant, 0))
}

// Advance feeds a wall-clock frame delta into the frame clock and runs the
// resulting whole ticks. It returns the number of ticks run.
func (s *Simulation) Advance(elapsed time.Duration) int {
	ticks := s.clock.Advance(elapsed)
	for i := 0; i < ticks; i++ {
		s.Step()
	}
	return ticks
}

// Update implements ecs.System. dt is the frame time in seconds.
func (s *Simulation) Update(dt float32) {
	s.Advance(time.Duration(float64(dt) * float64(time.Second)))
}

// Remove implements ecs.System by dropping the actor with e's ID.
func (s *Simulation) Remove(e ecs.BasicEntity) {
	id := e.ID()
	match := func(a *entity.Actor) bool { return a.ID() == id }

	if i := slices.IndexFunc(s.queue, match); i >= 0 {
		s.queue = slices.Delete(s.queue, i, i+1)
		if i == 0 && s.loaded {
			s.loaded = false
			if len(s.queue) > 0 {
				s.nextBirdIn = max(s.cfg.Rules.NextBirdDelayTicks, 1)
			}
		}
		return
	}
	s.flying = slices.DeleteFunc(s.flying, match)
	s.pigs = slices.DeleteFunc(s.pigs, match)
	s.structures = slices.DeleteFunc(s.structures, match)
}

// Step runs exactly one tick: bird loading, integration, collision
// resolution, removal of destroyed or departed actors and the outcome check.
// It does nothing once the level is over.
func (s *Simulation) Step() {
	if s.status != StatusPlaying {
		return
	}
	s.tick++

	s.updateBirdTimer()
	s.integrate()
	s.processCollisions()
	s.compact()
	s.checkOutcome()
}

func (s *Simulation) updateBirdTimer() {
	if s.nextBirdIn <= 0 {
		return
	}
	s.nextBirdIn--
	if s.nextBirdIn == 0 {
		s.loadNextBird()
	}
}

func (s *Simulation) integrate() {
	world := s.cfg.World
	for _, bird := range s.flying {
		s.engine.Integrate(bird.Body)
		if !world.InField(bird.Body.Position) {
			s.removals[bird.ID()] = true
		}
	}

	for _, group := range [][]*entity.Actor{s.pigs, s.structures} {
		for _, a := range group {
			if !s.engine.IntegrateMoving(a.Body) {
				continue
			}
			if resp, ok := a.GroundResponse(); ok {
				s.engine.ResolveGround(a.Body, resp)
			}
		}
	}
}

// processCollisions tests every pair with at least one circle and at least
// one moving body.
func (s *Simulation) processCollisions() {
	colliders := make([]*entity.Actor, 0, len(s.flying)+len(s.pigs)+len(s.structures))
	colliders = append(colliders, s.flying...)
	colliders = append(colliders, s.pigs...)
	colliders = append(colliders, s.structures...)

	for i := 0; i < len(colliders); i++ {
		for j := i + 1; j < len(colliders); j++ {
			a, b := colliders[i], colliders[j]
			if !s.canCollide(a, b) {
				continue
			}
			res := physics.Detect(a.Body, b.Body)
			if !res.Collided {
				continue
			}
			s.handleCollision(a, b, res)
		}
	}
}

func (s *Simulation) canCollide(a, b *entity.Actor) bool {
	if a.Destroyed || b.Destroyed || s.removals[a.ID()] || s.removals[b.ID()] {
		return false
	}
	if a.Body.IsRect() && b.Body.IsRect() {
		return false
	}
	return !a.Body.Velocity.IsZero() || !b.Body.Velocity.IsZero()
}

func (s *Simulation) handleCollision(a, b *entity.Actor, res physics.CollisionResult) {
	contact := s.engine.ResolveContact(a.Body, b.Body, res, physics.Support{
		A: s.supported(a),
		B: s.supported(b),
	})

	switch {
	case a.Kind == entity.KindBird && b.Kind != entity.KindBird:
		s.applyDamage(b, a.Damage)
	case b.Kind == entity.KindBird && a.Kind != entity.KindBird:
		s.applyDamage(a, b.Damage)
	}

	s.logger.Debug(s.ctx, "collision",
		"a", a.String(),
		"b", b.String(),
		"impulse", contact.Impulse,
		"penetration", res.Penetration)
	s.bus.Publish(event.NewCollisionEvent(s, a.ID(), b.ID(), contact.Impulse, res.ContactPoint))
}

// supported reports whether a holds still under a resting contact: it is
// asleep, or it stands on the ground and has a ground response.
func (s *Simulation) supported(a *entity.Actor) bool {
	if a.Body.Velocity.IsZero() {
		return true
	}
	_, grounded := a.GroundResponse()
	return grounded && s.engine.OnGround(a.Body)
}

func (s *Simulation) applyDamage(target *entity.Actor, damage int) {
	if target.TakeDamage(damage) {
		s.removals[target.ID()] = true
	}
}

// compact removes everything marked during the tick and books the score.
func (s *Simulation) compact() {
	if len(s.removals) == 0 {
		return
	}

	s.flying = slices.DeleteFunc(s.flying, func(a *entity.Actor) bool {
		if !s.removals[a.ID()] {
			return false
		}
		s.publishRemoved(a)
		return true
	})
	s.pigs = slices.DeleteFunc(s.pigs, func(a *entity.Actor) bool {
		if !s.removals[a.ID()] {
			return false
		}
		s.scorePig(a)
		s.publishRemoved(a)
		return true
	})
	s.structures = slices.DeleteFunc(s.structures, func(a *entity.Actor) bool {
		if !s.removals[a.ID()] {
			return false
		}
		s.scoreStructure(a)
		s.publishRemoved(a)
		return true
	})

	clear(s.removals)
}

func (s *Simulation) scorePig(pig *entity.Actor) {
	s.score += pig.Points
	s.pigsDestroyed++
	s.combo++
	s.maxCombo = max(s.maxCombo, s.combo)
	if s.combo > 1 {
		s.score += s.combo * ComboStepPoints
	}
	s.logger.Info(s.ctx, "pig destroyed", "pig", pig.Variant, "points", pig.Points, "combo", s.combo)
	s.bus.Publish(event.NewActorEvent(event.ActorDestroyed, s, pig.ID(), pig.Kind.String(), pig.Variant, pig.Points))
}

func (s *Simulation) scoreStructure(block *entity.Actor) {
	s.score += StructurePoints
	s.structuresDestroyed++
	s.logger.Debug(s.ctx, "structure destroyed", "material", block.Variant)
	s.bus.Publish(event.NewActorEvent(event.ActorDestroyed, s, block.ID(), block.Kind.String(), block.Variant, StructurePoints))
}

func (s *Simulation) publishRemoved(a *entity.Actor) {
	s.bus.Publish(event.NewActorEvent(event.ActorRemoved, s, a.ID(), a.Kind.String(), a.Variant, 0))
}

// checkOutcome wins the level once no pig remains. Once every bird has been
// launched and everything is at rest with pigs left, a grace countdown
// starts; the level is lost if pigs still remain when it expires.
func (s *Simulation) checkOutcome() {
	if len(s.pigs) == 0 {
		s.win()
		return
	}

	if s.graceLeft < 0 {
		if len(s.queue) > 0 || !s.allAtRest() {
			return
		}
		s.graceLeft = s.cfg.Rules.LoseGraceTicks
		s.logger.Debug(s.ctx, "all actors at rest", "grace_ticks", s.graceLeft)
	} else {
		s.graceLeft--
	}

	if s.graceLeft <= 0 {
		s.lose()
	}
}

func (s *Simulation) allAtRest() bool {
	bodies := make([]*physics.Body, 0, len(s.flying)+len(s.pigs)+len(s.structures))
	for _, group := range [][]*entity.Actor{s.flying, s.pigs, s.structures} {
		for _, a := range group {
			bodies = append(bodies, a.Body)
		}
	}
	return s.engine.AllAtRest(bodies)
}

// Elapsed returns the simulated time since the level started.
func (s *Simulation) Elapsed() time.Duration {
	return time.Duration(s.tick) * physics.TickDuration
}

func (s *Simulation) win() {
	unused := len(s.queue)
	bonus := unused*UnusedBirdPoints + s.maxCombo*MaxComboPoints
	switch elapsed := s.Elapsed(); {
	case elapsed < FastClearTime:
		bonus += FastClearPoints
	case elapsed < QuickClearTime:
		bonus += QuickClearPoints
	}
	s.score += bonus
	s.stars = s.def.Stars.Stars(s.score)
	s.status = StatusWon

	s.logger.Info(s.ctx, "level won",
		"level_id", s.def.ID,
		"score", s.score,
		"stars", s.stars,
		"unused_birds", unused,
		"ticks", s.tick)
	s.bus.Publish(event.NewLevelEvent(event.LevelWon, s, s.def.ID, s.def.Name, s.score, s.stars))
}

func (s *Simulation) lose() {
	s.status = StatusLost
	s.logger.Info(s.ctx, "level lost",
		"level_id", s.def.ID,
		"score", s.score,
		"pigs_left", len(s.pigs),
		"ticks", s.tick)
	s.bus.Publish(event.NewLevelEvent(event.LevelLost, s, s.def.ID, s.def.Name, s.score, 0))
}
