package entity

import "github.com/opd-ai/go-slingshot/pkg/physics"

// Renderer handles drawing a frame of the game
type Renderer interface {
	Clear()
	RenderActor(actor *Actor)
	RenderTrajectory(points []physics.Vector2D)
	Present()
}
