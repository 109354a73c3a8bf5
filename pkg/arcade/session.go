// pkg/arcade/session.go
package arcade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opd-ai/go-slingshot/pkg/config"
	"github.com/opd-ai/go-slingshot/pkg/engine"
	"github.com/opd-ai/go-slingshot/pkg/event"
	"github.com/opd-ai/go-slingshot/pkg/level"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/physics"
	"github.com/opd-ai/go-slingshot/pkg/progress"
	"github.com/opd-ai/go-slingshot/pkg/render"
)

// Session timings and screen defaults
const (
	messageLifetime = 3 * time.Second
	finishPause     = 2 * time.Second
	defaultColumns  = 78
	defaultRows     = 21
)

// Options configures a Session. Config, Catalog and Output are required.
type Options struct {
	Config     *config.GameConfig
	Catalog    *level.Catalog
	Output     io.Writer
	Size       render.SizeFunc
	Logger     *logging.Logger
	Progress   *progress.Progress
	Player     string
	StartLevel int
	Autopilot  engine.Behavior
	Autoplay   bool
	Seed       uint64
}

// Session plays the level catalog on one character terminal. Input arrives
// as commands and frames are drawn with a TerminalRenderer. A Session is
// driven from a single goroutine.
type Session struct {
	cfg      *config.GameConfig
	catalog  *level.Catalog
	logger   *logging.Logger
	ctx      context.Context
	size     render.SizeFunc
	player   string
	progress *progress.Progress

	sim        *engine.Simulation
	pilot      *engine.Autopilot
	screen     *render.TerminalRenderer
	autoplay   bool
	trajectory bool
	aim        Aim

	clock      time.Duration
	message    string
	messageEnd time.Duration
	finished   bool
	finishedAt time.Duration
	quit       bool
}

// NewSession builds a session positioned on the requested start level, or
// the first level when it is missing or locked.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Config == nil || opts.Catalog == nil || opts.Output == nil {
		return nil, errors.New("session needs a config, a level catalog and an output")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	p := opts.Progress
	if p == nil {
		p = progress.New()
	}

	s := &Session{
		cfg:        opts.Config,
		catalog:    opts.Catalog,
		logger:     logger.WithComponent("arcade"),
		ctx:        ctx,
		size:       opts.Size,
		player:     opts.Player,
		progress:   p,
		pilot:      engine.NewAutopilot(opts.Autopilot, opts.Seed),
		autoplay:   opts.Autoplay,
		trajectory: opts.Config.Rules.ShowTrajectory,
		aim:        DefaultAim(),
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.ActorDestroyed, func(e event.Event) {
		if ae, ok := e.(*event.ActorEvent); ok && ae.Kind == "pig" {
			s.say(fmt.Sprintf("Pig popped! +%d", ae.Points))
		}
	})
	bus.Subscribe(event.LevelWon, s.finish)
	bus.Subscribe(event.LevelLost, s.finish)

	sim, err := engine.NewSimulation(s.cfg, s.startLevel(opts.StartLevel),
		engine.WithEventBus(bus),
		engine.WithLogger(logger),
		engine.WithContext(ctx),
		engine.WithSeed(opts.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	s.sim = sim

	s.screen = render.NewTerminalRenderer(opts.Output, defaultColumns, defaultRows, s.cfg.World.Width, s.cfg.World.Height)
	s.screen.SetGround(s.cfg.Physics.GroundY)
	s.screen.SetSlingshot(s.cfg.World.Slingshot())
	return s, nil
}

func (s *Session) startLevel(id int) *level.Definition {
	def, ok := s.catalog.ByID(id)
	if !ok || !s.progress.Unlocked(def.ID) {
		return s.catalog.First()
	}
	return def
}

// Run reads commands from input and draws a frame per tick until the player
// quits, input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context, input io.Reader) error {
	keys := make(chan []byte)
	readErr := make(chan error, 1)
	go readInput(ctx, input, keys, readErr)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Rules.FrameRate))
	defer ticker.Stop()

	var parser KeyParser
	last := time.Now()
	s.Frame(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		case data := <-keys:
			for _, cmd := range parser.Feed(data) {
				s.Handle(cmd)
			}
			if s.quit {
				return nil
			}
		case now := <-ticker.C:
			s.Frame(now.Sub(last))
			last = now
		}
	}
}

func readInput(ctx context.Context, input io.Reader, keys chan<- []byte, readErr chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := input.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case keys <- data:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			readErr <- err
			return
		}
	}
}

// Handle applies one player command.
func (s *Session) Handle(cmd Command) {
	s.logger.Debug(s.ctx, "command", "command", cmd.String())
	switch cmd {
	case CommandQuit:
		s.quit = true
	case CommandRestart:
		s.sim.Restart()
		s.finished = false
	case CommandNext:
		s.nextLevel()
	case CommandAutopilot:
		s.autoplay = !s.autoplay
		if s.autoplay {
			s.say("Autopilot: " + s.pilot.Behavior().String())
		} else {
			s.sim.CancelAim()
			s.say("Autopilot off")
		}
	case CommandTrajectory:
		s.trajectory = !s.trajectory
	case CommandAimUp, CommandAimDown, CommandPowerUp, CommandPowerDown:
		if !s.autoplay {
			s.aim = s.aim.Apply(cmd)
		}
	case CommandFire:
		if !s.autoplay {
			s.fire()
		}
	}
}

func (s *Session) fire() {
	err := s.sim.Launch(s.pull())
	switch {
	case errors.Is(err, engine.ErrWeakPull):
		s.say("Pull harder")
	case errors.Is(err, engine.ErrNoBirdReady), errors.Is(err, engine.ErrLevelOver):
	case err != nil:
		s.logger.Warn(s.ctx, "launch failed", "error", err)
	}
}

func (s *Session) pull() physics.Vector2D {
	return s.aim.Pull(s.cfg.World.Slingshot(), s.cfg.Physics.MaxDragDistance)
}

// nextLevel moves to the following level when the player has unlocked it.
func (s *Session) nextLevel() {
	next, ok := s.catalog.Next(s.sim.Level().ID)
	if !ok {
		s.say("That was the last level")
		return
	}
	if !s.progress.Unlocked(next.ID) {
		s.say("Level locked")
		return
	}
	s.load(next)
}

func (s *Session) load(def *level.Definition) {
	if err := s.sim.Load(def); err != nil {
		s.logger.Error(s.ctx, "failed to load level", err, "level", def.ID)
		return
	}
	s.finished = false
}

func (s *Session) finish(event.Event) {
	result := s.sim.Result()
	s.logger.Info(s.ctx, "level finished",
		"player", s.player,
		"level", result.LevelID,
		"status", result.Status.String(),
		"score", result.Score,
		"stars", result.Stars)

	for _, a := range s.progress.RecordRun(result, s.catalog.Last().ID) {
		s.say("Achievement unlocked: " + a.Name)
	}
	s.finished = true
	s.finishedAt = s.clock
}

// Frame advances the session by elapsed wall-clock time and draws it.
func (s *Session) Frame(elapsed time.Duration) {
	s.clock += elapsed

	if s.finished && s.autoplay && s.clock-s.finishedAt >= finishPause {
		s.continueAutoplay()
	}
	if s.autoplay && s.sim.Status() == engine.StatusPlaying && s.sim.ActiveBird() != nil {
		if err := s.pilot.Fire(s.sim); err != nil && !errors.Is(err, engine.ErrNoBirdReady) {
			s.logger.Debug(s.ctx, "autopilot shot rejected", "error", err)
		}
	}

	s.sim.Advance(elapsed)
	s.draw()
}

// continueAutoplay moves a spectating session on: the next level after a
// win, wrapping to the first, or the same level after a loss.
func (s *Session) continueAutoplay() {
	if s.sim.Status() != engine.StatusWon {
		s.sim.Restart()
		s.finished = false
		return
	}
	next, ok := s.catalog.Next(s.sim.Level().ID)
	if !ok {
		next = s.catalog.First()
	}
	s.load(next)
}

func (s *Session) draw() {
	if s.size != nil {
		if err := s.screen.FitTerminal(s.size); err != nil {
			s.logger.Debug(s.ctx, "terminal size unavailable", "error", err)
		}
	}

	var preview []physics.Vector2D
	if !s.autoplay && s.sim.Status() == engine.StatusPlaying && s.sim.ActiveBird() != nil {
		arc := s.sim.Aim(s.pull())
		if s.trajectory {
			preview = arc
		}
	}

	s.screen.SetStatus(s.StatusLine())
	s.sim.Render(s.screen, preview)
}

func (s *Session) say(text string) {
	s.message = text
	s.messageEnd = s.clock + messageLifetime
}

// StatusLine returns the text shown under the playfield.
func (s *Session) StatusLine() string {
	def := s.sim.Level()
	parts := []string{
		s.player,
		fmt.Sprintf("L%d %s", def.ID, def.Name),
		fmt.Sprintf("Score %d", s.sim.Score()),
		fmt.Sprintf("Birds %d", s.sim.BirdsLeft()),
	}

	switch s.sim.Status() {
	case engine.StatusWon:
		parts = append(parts, "Cleared "+strings.Repeat("*", s.sim.Stars())+" [n]ext [r]etry")
	case engine.StatusLost:
		parts = append(parts, "Out of birds [r]etry")
	default:
		if s.autoplay {
			parts = append(parts, "AUTO "+s.pilot.Behavior().String())
		} else {
			parts = append(parts, fmt.Sprintf("angle %.0f power %.0f%%", s.aim.Angle, s.aim.Power*100))
		}
	}

	if s.message != "" && s.clock < s.messageEnd {
		parts = append(parts, s.message)
	}
	if s.player == "" {
		parts = parts[1:]
	}
	return strings.Join(parts, " | ")
}

// Close restores the terminal cursor.
func (s *Session) Close() error {
	return s.screen.Close()
}

// Simulation returns the running simulation.
func (s *Session) Simulation() *engine.Simulation { return s.sim }

// Progress returns the session's progress record.
func (s *Session) Progress() *progress.Progress { return s.progress }

// Aim returns the current keyboard aim.
func (s *Session) Aim() Aim { return s.aim }

// Autoplay reports whether the autopilot is firing.
func (s *Session) Autoplay() bool { return s.autoplay }

// Quit reports whether the player asked to leave.
func (s *Session) Quit() bool { return s.quit }
