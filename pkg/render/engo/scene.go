// pkg/render/engo/scene.go
package engo

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-slingshot/pkg/config"
	"github.com/opd-ai/go-slingshot/pkg/engine"
	"github.com/opd-ai/go-slingshot/pkg/event"
	"github.com/opd-ai/go-slingshot/pkg/level"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/progress"
)

// System priorities; higher runs first.
const (
	priorityInput  = 30
	priorityCamera = 20
	priorityFrame  = 10
	priorityHUD    = 0
)

// SceneOptions configures a GameScene. All fields are optional.
type SceneOptions struct {
	Progress     *progress.Progress
	ProgressPath string
	Logger       *logging.Logger
	FontPath     string
	Autopilot    engine.Behavior
	Seed         uint64
}

// GameScene plays the level catalog in an engo window
type GameScene struct {
	cfg        *config.GameConfig
	catalog    *level.Catalog
	startLevel int
	opts       SceneOptions
	logger     *logging.Logger
	ctx        context.Context

	sim       *engine.Simulation
	bus       *event.Bus
	assets    *AssetManager
	renderer  *EngoRenderer
	camera    *CameraSystem
	input     *InputSystem
	hud       *HUDSystem
	autopilot *engine.Autopilot
	autoplay  bool

	background func(color.Color)
}

// NewGameScene creates a new game scene starting at startLevel
func NewGameScene(cfg *config.GameConfig, catalog *level.Catalog, startLevel int, opts SceneOptions) *GameScene {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &GameScene{
		cfg:        cfg,
		catalog:    catalog,
		startLevel: startLevel,
		opts:       opts,
		logger:     logger.WithComponent("scene"),
		ctx:        logging.WithCorrelationID(context.Background(), ""),
		assets:     NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "SlingshotScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if scene.opts.FontPath == "" {
		return
	}
	if err := engo.Files.Load(scene.opts.FontPath); err != nil {
		scene.logger.Warn(scene.ctx, "font not loaded, HUD disabled", "path", scene.opts.FontPath, "error", err)
		scene.opts.FontPath = ""
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Error(scene.ctx, "unexpected updater", fmt.Errorf("%T is not an ecs world", u))
		engo.Exit()
		return
	}

	SetupInputBindings()
	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	scene.background = common.SetBackground

	if err := scene.start(renderSystem, float64(engo.GameWidth()), float64(engo.GameHeight())); err != nil {
		scene.logger.Error(scene.ctx, "failed to start level", err)
		engo.Exit()
		return
	}

	if scene.opts.FontPath != "" {
		font := &common.Font{URL: scene.opts.FontPath, FG: color.White, Size: 18}
		if err := font.CreatePreloaded(); err != nil {
			scene.logger.Warn(scene.ctx, "font not created, HUD disabled", "error", err)
		} else {
			scene.hud.SetFont(font, renderSystem)
		}
	}

	world.AddSystem(&prioritized{System: scene.input, priority: priorityInput})
	world.AddSystem(&prioritized{System: scene.camera, priority: priorityCamera})
	world.AddSystem(&prioritized{System: &frameSystem{scene: scene}, priority: priorityFrame})
	world.AddSystem(&prioritized{System: scene.hud, priority: priorityHUD})
}

// start builds the simulation and the systems around it. Sprites are added
// to sink.
func (scene *GameScene) start(sink SpriteSystem, viewWidth, viewHeight float64) error {
	def := scene.initialLevel()

	scene.bus = event.NewEventBus()
	sim, err := engine.NewSimulation(scene.cfg, def,
		engine.WithEventBus(scene.bus),
		engine.WithLogger(scene.logger),
		engine.WithContext(scene.ctx),
		engine.WithSeed(scene.opts.Seed))
	if err != nil {
		return err
	}
	scene.sim = sim
	scene.subscribe()

	scene.camera = NewCameraSystem(viewWidth, viewHeight, scene.cfg.World.Width, scene.cfg.World.Height)
	scene.hud = NewHUDSystem()
	scene.input = NewInputSystem(sim, scene.camera, Commands{
		Restart:         scene.Restart,
		NextLevel:       scene.NextLevel,
		ToggleAutopilot: scene.ToggleAutopilot,
		Exit:            engo.Exit,
	}, scene.cfg.Rules.ShowTrajectory)
	scene.renderer = NewEngoRenderer(sink, scene.camera, scene.assets,
		scene.cfg.Physics.GroundY, scene.cfg.World.Width, scene.cfg.World.Slingshot())
	scene.autopilot = engine.NewAutopilot(scene.opts.Autopilot, scene.opts.Seed)

	scene.applyBackground()
	scene.hud.SetSnapshot(sim.Snapshot())
	return nil
}

// initialLevel returns the requested level, or the first one when it is
// missing or still locked.
func (scene *GameScene) initialLevel() *level.Definition {
	def, ok := scene.catalog.ByID(scene.startLevel)
	if !ok {
		return scene.catalog.First()
	}
	if p := scene.opts.Progress; p != nil && !p.Unlocked(def.ID) {
		scene.logger.Warn(scene.ctx, "level locked, starting from the first level", "level", def.ID)
		return scene.catalog.First()
	}
	return def
}

func (scene *GameScene) subscribe() {
	scene.bus.Subscribe(event.ActorDestroyed, func(e event.Event) {
		if ae, ok := e.(*event.ActorEvent); ok && ae.Kind == "pig" {
			scene.hud.AddMessage(fmt.Sprintf("Pig popped! +%d", ae.Points))
		}
	})
	scene.bus.Subscribe(event.LevelWon, scene.finish)
	scene.bus.Subscribe(event.LevelLost, scene.finish)
}

// finish records a finished run in the player's progress
func (scene *GameScene) finish(e event.Event) {
	result := scene.sim.Result()
	scene.logger.Info(scene.ctx, "level finished",
		"level", result.LevelID,
		"status", result.Status.String(),
		"score", result.Score,
		"stars", result.Stars)

	p := scene.opts.Progress
	if p == nil {
		return
	}
	for _, a := range p.RecordRun(result, scene.catalog.Last().ID) {
		scene.hud.AddMessage("Achievement unlocked: " + a.Name)
	}
	scene.saveProgress()
}

func (scene *GameScene) saveProgress() {
	if scene.opts.Progress == nil || scene.opts.ProgressPath == "" {
		return
	}
	if err := scene.opts.Progress.Save(scene.opts.ProgressPath); err != nil {
		scene.logger.Error(scene.ctx, "failed to save progress", err, "path", scene.opts.ProgressPath)
	}
}

// Frame advances the simulation by dt seconds and draws the result
func (scene *GameScene) Frame(dt float32) {
	sim := scene.sim
	if scene.autoplay && !scene.input.Dragging() && sim.ActiveBird() != nil {
		if err := scene.autopilot.Fire(sim); err != nil && !errors.Is(err, engine.ErrLevelOver) {
			scene.logger.Debug(scene.ctx, "autopilot shot skipped", "error", err)
		}
	}
	sim.Update(dt)

	if flying := sim.Flying(); len(flying) > 0 {
		scene.camera.SetTarget(flying[len(flying)-1].Body.Position)
	} else {
		scene.camera.ClearTarget()
	}

	sim.Render(scene.renderer, scene.input.Preview())
	scene.hud.SetSnapshot(sim.Snapshot())
}

// Restart replays the current level
func (scene *GameScene) Restart() {
	scene.sim.Restart()
	scene.hud.AddMessage("Level restarted")
}

// NextLevel loads the level after the current one when it is unlocked
func (scene *GameScene) NextLevel() {
	next, ok := scene.catalog.Next(scene.sim.Level().ID)
	if !ok {
		scene.hud.AddMessage("That was the last level")
		return
	}
	if p := scene.opts.Progress; p != nil && !p.Unlocked(next.ID) {
		scene.hud.AddMessage("Level locked")
		return
	}
	if err := scene.sim.Load(next); err != nil {
		scene.logger.Error(scene.ctx, "failed to load level", err, "level", next.ID)
		return
	}
	scene.applyBackground()
}

// ToggleAutopilot switches between mouse aiming and the autopilot
func (scene *GameScene) ToggleAutopilot() {
	scene.autoplay = !scene.autoplay
	if scene.autoplay {
		scene.hud.SetAutopilot(scene.autopilot.Behavior().String())
	} else {
		scene.hud.SetAutopilot("")
	}
}

func (scene *GameScene) applyBackground() {
	if scene.background != nil {
		scene.background(scene.assets.BackgroundColor(scene.sim.Level().Background))
	}
}

// Simulation returns the running simulation
func (scene *GameScene) Simulation() *engine.Simulation {
	return scene.sim
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.saveProgress()
	if scene.renderer != nil {
		scene.renderer.Close()
	}
}

// frameSystem drives GameScene.Frame from the ecs world
type frameSystem struct {
	scene *GameScene
}

func (fs *frameSystem) Update(dt float32)            { fs.scene.Frame(dt) }
func (fs *frameSystem) Remove(basic ecs.BasicEntity) {}

// prioritized orders systems in the world
type prioritized struct {
	ecs.System
	priority int
}

func (p *prioritized) Priority() int { return p.priority }
