// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// NullRenderer is an entity.Renderer that only logs what it is asked to draw.
// Headless runs use it so frame code paths stay exercised without a display.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a NullRenderer logging through logger. A nil
// logger discards everything.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{
		logger: logger.WithComponent("null_renderer"),
	}
}

// Frames returns the number of frames presented.
func (d *NullRenderer) Frames() int {
	return d.frames
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderActor implements entity.Renderer.
func (d *NullRenderer) RenderActor(actor *entity.Actor) {
	ctx := context.Background()
	if actor == nil {
		d.logger.Debug(ctx, "RenderActor called with nil actor")
		return
	}
	d.logger.Debug(ctx, "RenderActor called",
		"actor_id", actor.ID(),
		"kind", actor.Kind.String(),
		"variant", actor.Variant,
		"x", actor.Body.Position.X,
		"y", actor.Body.Position.Y,
	)
}

// RenderTrajectory implements entity.Renderer.
func (d *NullRenderer) RenderTrajectory(points []physics.Vector2D) {
	d.logger.Debug(context.Background(), "RenderTrajectory called", "points", len(points))
}

var _ entity.Renderer = (*NullRenderer)(nil)
