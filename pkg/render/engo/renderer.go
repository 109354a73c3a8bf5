// pkg/render/engo/renderer.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Z layers
const (
	zGround    float32 = 0
	zStructure float32 = 1
	zPig       float32 = 2
	zBird      float32 = 3
	zDots      float32 = 4
)

const dotRadius = 3.0

// SpriteSystem receives the drawable entities of a frame.
// *common.RenderSystem satisfies it.
type SpriteSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent

	seen bool
}

func newSprite(drawable common.Drawable, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = drawable
	s.Scale = engo.Point{X: 1, Y: 1}
	s.SetZIndex(z)
	return s
}

// EngoRenderer implements entity.Renderer on top of an engo render system.
// Sprites are kept per actor between frames; actors not drawn during a frame
// are removed when it is presented.
type EngoRenderer struct {
	sink   SpriteSystem
	camera *CameraSystem
	assets *AssetManager

	groundY    float64
	anchor     physics.Vector2D
	worldWidth float64

	ground    *sprite
	slingshot *sprite

	actors   map[uint64]*sprite
	dots     []*sprite
	dotsUsed int

	frames int
}

// NewEngoRenderer creates a renderer drawing into sink.
func NewEngoRenderer(sink SpriteSystem, camera *CameraSystem, assets *AssetManager, groundY, worldWidth float64, anchor physics.Vector2D) *EngoRenderer {
	r := &EngoRenderer{
		sink:       sink,
		camera:     camera,
		assets:     assets,
		groundY:    groundY,
		anchor:     anchor,
		worldWidth: worldWidth,
		actors:     make(map[uint64]*sprite),
	}

	r.ground = newSprite(common.Rectangle{}, zGround)
	r.ground.Color = colorGround
	r.slingshot = newSprite(common.Rectangle{}, zGround)
	r.slingshot.Color = colorSlingshot
	sink.Add(&r.ground.BasicEntity, &r.ground.RenderComponent, &r.ground.SpaceComponent)
	sink.Add(&r.slingshot.BasicEntity, &r.slingshot.RenderComponent, &r.slingshot.SpaceComponent)
	return r
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	for _, s := range r.actors {
		s.seen = false
	}
	r.dotsUsed = 0

	r.place(&r.ground.SpaceComponent, physics.Vector2D{X: 0, Y: r.groundY}, r.worldWidth, r.groundY)
	r.place(&r.slingshot.SpaceComponent, physics.Vector2D{X: r.anchor.X - 4, Y: r.anchor.Y}, 8, r.groundY-r.anchor.Y)
}

// RenderActor implements entity.Renderer
func (r *EngoRenderer) RenderActor(a *entity.Actor) {
	s, ok := r.actors[a.ID()]
	if !ok {
		s = newSprite(r.assets.Drawable(a), actorZ(a.Kind))
		r.actors[a.ID()] = s
		r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	s.seen = true
	s.Color = r.assets.ActorColor(a)

	body := a.Body
	if body.IsCircle() {
		radius := body.Shape.Radius
		r.place(&s.SpaceComponent, body.Position.Sub(physics.Vector2D{X: radius, Y: radius}), 2*radius, 2*radius)
	} else {
		r.place(&s.SpaceComponent, body.Position, body.Shape.Width, body.Shape.Height)
	}
	s.Rotation = float32(body.Angle * 180 / math.Pi)
}

// RenderTrajectory implements entity.Renderer
func (r *EngoRenderer) RenderTrajectory(points []physics.Vector2D) {
	for _, p := range points {
		if r.dotsUsed == len(r.dots) {
			dot := newSprite(common.Circle{}, zDots)
			dot.Color = colorTrajectory
			r.dots = append(r.dots, dot)
			r.sink.Add(&dot.BasicEntity, &dot.RenderComponent, &dot.SpaceComponent)
		}
		dot := r.dots[r.dotsUsed]
		dot.Hidden = false
		r.place(&dot.SpaceComponent, p.Sub(physics.Vector2D{X: dotRadius, Y: dotRadius}), 2*dotRadius, 2*dotRadius)
		r.dotsUsed++
	}
}

// Present implements entity.Renderer
func (r *EngoRenderer) Present() {
	for id, s := range r.actors {
		if !s.seen {
			r.sink.Remove(s.BasicEntity)
			delete(r.actors, id)
		}
	}
	for _, dot := range r.dots[r.dotsUsed:] {
		dot.Hidden = true
	}
	r.frames++
}

// Close removes every sprite from the sink.
func (r *EngoRenderer) Close() {
	for id, s := range r.actors {
		r.sink.Remove(s.BasicEntity)
		delete(r.actors, id)
	}
	for _, dot := range r.dots {
		r.sink.Remove(dot.BasicEntity)
	}
	r.dots = nil
	r.dotsUsed = 0
	r.sink.Remove(r.ground.BasicEntity)
	r.sink.Remove(r.slingshot.BasicEntity)
}

// SetAnchor moves the slingshot drawing.
func (r *EngoRenderer) SetAnchor(anchor physics.Vector2D) {
	r.anchor = anchor
}

// ActorSprites returns the number of actors currently drawn
func (r *EngoRenderer) ActorSprites() int {
	return len(r.actors)
}

// VisibleDots returns the number of trajectory dots shown
func (r *EngoRenderer) VisibleDots() int {
	visible := 0
	for _, dot := range r.dots {
		if !dot.Hidden {
			visible++
		}
	}
	return visible
}

// Frames returns the number of presented frames
func (r *EngoRenderer) Frames() int {
	return r.frames
}

// place positions space at the screen rectangle of a world rectangle.
func (r *EngoRenderer) place(space *common.SpaceComponent, topLeft physics.Vector2D, width, height float64) {
	screen := r.camera.WorldToScreen(topLeft)
	space.Position = engo.Point{X: float32(screen.X), Y: float32(screen.Y)}
	space.Width = r.camera.Scale(width)
	space.Height = r.camera.Scale(height)
}

func actorZ(kind entity.Kind) float32 {
	switch kind {
	case entity.KindStructure:
		return zStructure
	case entity.KindPig:
		return zPig
	default:
		return zBird
	}
}
