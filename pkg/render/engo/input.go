// pkg/render/engo/input.go
package engo

import (
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-slingshot/pkg/engine"
	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Button names
const (
	buttonRestart    = "restart"
	buttonNext       = "next"
	buttonAutopilot  = "autopilot"
	buttonTrajectory = "trajectory"
	buttonResetZoom  = "resetZoom"
	buttonExit       = "exit"
)

// grabMargin extends the bird radius when picking it up with the mouse.
const grabMargin = 20.0

// Slingshot is the aiming surface of a level run. *engine.Simulation
// satisfies it.
type Slingshot interface {
	ActiveBird() *entity.Actor
	Aim(pull physics.Vector2D) []physics.Vector2D
	CancelAim()
	Launch(pull physics.Vector2D) error
}

// Commands are the callbacks bound to keyboard buttons. Nil entries are
// ignored.
type Commands struct {
	Restart         func()
	NextLevel       func()
	ToggleAutopilot func()
	Exit            func()
}

// InputSystem turns mouse drags into slingshot pulls and keys into commands
type InputSystem struct {
	sling    Slingshot
	camera   *CameraSystem
	commands Commands

	dragging       bool
	preview        []physics.Vector2D
	showTrajectory bool

	lastErr error
}

// NewInputSystem creates a new input system
func NewInputSystem(sling Slingshot, camera *CameraSystem, commands Commands, showTrajectory bool) *InputSystem {
	return &InputSystem{
		sling:          sling,
		camera:         camera,
		commands:       commands,
		showTrajectory: showTrajectory,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes mouse and keyboard input
func (is *InputSystem) Update(dt float32) {
	mouse := physics.Vector2D{X: float64(engo.Input.Mouse.X), Y: float64(engo.Input.Mouse.Y)}
	switch engo.Input.Mouse.Action {
	case engo.Press:
		is.Press(mouse)
	case engo.Move:
		is.Drag(mouse)
	case engo.Release:
		is.lastErr = is.Release(mouse)
	}

	switch {
	case engo.Input.Button(buttonRestart).JustPressed():
		is.Cancel()
		call(is.commands.Restart)
	case engo.Input.Button(buttonNext).JustPressed():
		is.Cancel()
		call(is.commands.NextLevel)
	case engo.Input.Button(buttonAutopilot).JustPressed():
		is.Cancel()
		call(is.commands.ToggleAutopilot)
	case engo.Input.Button(buttonTrajectory).JustPressed():
		is.ToggleTrajectory()
	case engo.Input.Button(buttonExit).JustPressed():
		call(is.commands.Exit)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Press starts a drag when the screen point is on the loaded bird. It
// reports whether the bird was grabbed.
func (is *InputSystem) Press(screen physics.Vector2D) bool {
	bird := is.sling.ActiveBird()
	if bird == nil {
		return false
	}
	world := is.camera.ScreenToWorld(screen)
	if world.Distance(bird.Body.Position) > bird.Body.Shape.Radius+grabMargin {
		return false
	}
	is.dragging = true
	is.preview = is.sling.Aim(world)
	return true
}

// Drag moves the pull point of an active drag
func (is *InputSystem) Drag(screen physics.Vector2D) {
	if !is.dragging {
		return
	}
	is.preview = is.sling.Aim(is.camera.ScreenToWorld(screen))
}

// Release launches the bird from the screen point. A release outside of a
// drag does nothing.
func (is *InputSystem) Release(screen physics.Vector2D) error {
	if !is.dragging {
		return nil
	}
	is.dragging = false
	is.preview = nil
	return is.sling.Launch(is.camera.ScreenToWorld(screen))
}

// Cancel drops an active drag and returns the bird to the anchor
func (is *InputSystem) Cancel() {
	if is.dragging {
		is.dragging = false
		is.preview = nil
		is.sling.CancelAim()
	}
}

// Dragging reports whether the bird is being pulled
func (is *InputSystem) Dragging() bool {
	return is.dragging
}

// Preview returns the predicted flight path of the current pull, or nil
// when not dragging or the trajectory is hidden
func (is *InputSystem) Preview() []physics.Vector2D {
	if !is.showTrajectory {
		return nil
	}
	return is.preview
}

// ToggleTrajectory shows or hides the aiming arc
func (is *InputSystem) ToggleTrajectory() {
	is.showTrajectory = !is.showTrajectory
}

// WeakPull reports whether the last release was too short to launch
func (is *InputSystem) WeakPull() bool {
	return errors.Is(is.lastErr, engine.ErrWeakPull)
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonRestart, engo.KeyR)
	engo.Input.RegisterButton(buttonNext, engo.KeyN)
	engo.Input.RegisterButton(buttonAutopilot, engo.KeySpace)
	engo.Input.RegisterButton(buttonTrajectory, engo.KeyT)
	engo.Input.RegisterButton(buttonResetZoom, engo.KeyZ)
	engo.Input.RegisterButton(buttonExit, engo.KeyEscape)
}
