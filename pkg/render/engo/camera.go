// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// CameraSystem maps world coordinates to the window. By default the whole
// field is fitted to the window; while a target is set the view pans toward
// it, never showing anything outside the field.
type CameraSystem struct {
	// Viewport and world sizes
	viewWidth   float64
	viewHeight  float64
	worldWidth  float64
	worldHeight float64

	// Camera properties
	zoom    float32
	fitZoom float32
	minZoom float32
	maxZoom float32

	// Smooth following
	followSpeed float32
	smoothing   bool

	// Target to follow
	target    physics.Vector2D
	targetSet bool

	// World point at the centre of the view
	currentPos physics.Vector2D
}

// NewCameraSystem creates a camera showing the whole world in the viewport.
func NewCameraSystem(viewWidth, viewHeight, worldWidth, worldHeight float64) *CameraSystem {
	cs := &CameraSystem{
		worldWidth:  worldWidth,
		worldHeight: worldHeight,
		minZoom:     0.1,
		maxZoom:     3.0,
		followSpeed: 2.0,
		smoothing:   true,
	}
	cs.SetViewport(viewWidth, viewHeight)
	return cs
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update processes zoom input and follows the target
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.step(dt)
}

func (cs *CameraSystem) step(dt float32) {
	if cs.targetSet {
		cs.updateCameraPosition(dt)
	}
	cs.clampToWorld()
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1.0 + scrollY*0.1))
	}
	if engo.Input.Button(buttonResetZoom).JustPressed() {
		cs.Fit()
	}
}

// updateCameraPosition moves the camera toward the target
func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	t := math.Min(float64(cs.followSpeed)*float64(dt), 1)
	cs.currentPos.X += (cs.target.X - cs.currentPos.X) * t
	cs.currentPos.Y += (cs.target.Y - cs.currentPos.Y) * t
}

// clampToWorld keeps the view inside the field. An axis that fits entirely
// in the view is centred.
func (cs *CameraSystem) clampToWorld() {
	cs.currentPos.X = clampAxis(cs.currentPos.X, cs.viewWidth/2/float64(cs.zoom), cs.worldWidth)
	cs.currentPos.Y = clampAxis(cs.currentPos.Y, cs.viewHeight/2/float64(cs.zoom), cs.worldHeight)
}

func clampAxis(pos, halfView, size float64) float64 {
	if 2*halfView >= size {
		return size / 2
	}
	return math.Max(halfView, math.Min(pos, size-halfView))
}

// SetViewport updates the window size and refits the world.
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.viewWidth = width
	cs.viewHeight = height
	cs.fitZoom = float32(math.Min(width/cs.worldWidth, height/cs.worldHeight))
	cs.Fit()
}

// Fit shows the whole world and drops any target.
func (cs *CameraSystem) Fit() {
	cs.zoom = cs.clampZoom(cs.fitZoom)
	cs.targetSet = false
	cs.currentPos = physics.Vector2D{X: cs.worldWidth / 2, Y: cs.worldHeight / 2}
}

// SetTarget sets the position for the camera to follow
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	cs.target = target
	cs.targetSet = true
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
	cs.clampToWorld()
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

// clampZoom ensures zoom is within valid bounds
func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the world point at the centre of the view
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts world coordinates to screen coordinates
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	zoom := float64(cs.zoom)
	return physics.Vector2D{
		X: (worldPos.X-cs.currentPos.X)*zoom + cs.viewWidth/2,
		Y: (worldPos.Y-cs.currentPos.Y)*zoom + cs.viewHeight/2,
	}
}

// ScreenToWorld converts screen coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	zoom := float64(cs.zoom)
	return physics.Vector2D{
		X: (screenPos.X-cs.viewWidth/2)/zoom + cs.currentPos.X,
		Y: (screenPos.Y-cs.viewHeight/2)/zoom + cs.currentPos.Y,
	}
}

// Scale converts a world length to screen pixels.
func (cs *CameraSystem) Scale(length float64) float32 {
	return float32(length * float64(cs.zoom))
}
