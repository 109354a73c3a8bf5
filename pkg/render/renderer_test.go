// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/physics"
)

func newLoggingNullRenderer() (*NullRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelDebug)), &buf
}

func TestNullRenderer_ClearAndPresent(t *testing.T) {
	renderer, buf := newLoggingNullRenderer()

	renderer.Clear()
	renderer.Present()
	renderer.Present()

	output := buf.String()
	if !strings.Contains(output, "Clear called") || !strings.Contains(output, "Present called") {
		t.Errorf("Expected Clear and Present to be logged, got: %s", output)
	}
	if renderer.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", renderer.Frames())
	}
}

func TestNullRenderer_RenderActor(t *testing.T) {
	factory := entity.NewFactory(physics.NewEngine(physics.DefaultConfig()))

	tests := []struct {
		name     string
		actor    *entity.Actor
		expected []string
	}{
		{
			name:     "bird",
			actor:    factory.NewBird(entity.BirdYellow, physics.Vector2D{X: 150, Y: 600}),
			expected: []string{"RenderActor called", `"kind":"bird"`, `"variant":"yellow"`},
		},
		{
			name:     "structure",
			actor:    factory.NewStructure(entity.MaterialIce, physics.Vector2D{X: 640, Y: 500}, 100, 20, 40),
			expected: []string{`"kind":"structure"`, `"x":640`},
		},
		{
			name:     "nil",
			actor:    nil,
			expected: []string{"RenderActor called with nil actor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, buf := newLoggingNullRenderer()
			renderer.RenderActor(tt.actor)
			for _, want := range tt.expected {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Expected log to contain %s, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNullRenderer_RenderTrajectory(t *testing.T) {
	renderer, buf := newLoggingNullRenderer()
	renderer.RenderTrajectory(make([]physics.Vector2D, 3))

	if !strings.Contains(buf.String(), `"points":3`) {
		t.Errorf("Expected point count in log, got: %s", buf.String())
	}
}

func TestNullRenderer_NilLogger(t *testing.T) {
	renderer := NewNullRenderer(nil)
	renderer.Clear()
	renderer.RenderActor(nil)
	renderer.Present()
	if renderer.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", renderer.Frames())
	}
}
