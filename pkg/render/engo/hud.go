// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-slingshot/pkg/engine"
)

const (
	messageLifetime = 3 * time.Second
	maxMessages     = 4
	hudLineHeight   = 20
	hudMargin       = 10
)

// Message is a transient notice shown under the status lines
type Message struct {
	Text      string
	remaining time.Duration
}

// HUDSystem shows the level status and transient messages. Text is only
// drawn when a font and sink have been set.
type HUDSystem struct {
	snapshot  engine.Snapshot
	messages  []Message
	autopilot string

	font  *common.Font
	sink  SpriteSystem
	lines []*sprite
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem() *HUDSystem {
	return &HUDSystem{}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update expires messages and redraws the text
func (hud *HUDSystem) Update(dt float32) {
	hud.expire(time.Duration(float64(dt) * float64(time.Second)))
	hud.draw()
}

func (hud *HUDSystem) expire(elapsed time.Duration) {
	kept := hud.messages[:0]
	for _, m := range hud.messages {
		m.remaining -= elapsed
		if m.remaining > 0 {
			kept = append(kept, m)
		}
	}
	hud.messages = kept
}

// SetSnapshot sets the state shown on the next update.
func (hud *HUDSystem) SetSnapshot(snap engine.Snapshot) {
	hud.snapshot = snap
}

// SetAutopilot names the active autopilot behaviour; empty hides it.
func (hud *HUDSystem) SetAutopilot(name string) {
	hud.autopilot = name
}

// AddMessage shows msg for a few seconds. Only the newest messages are kept.
func (hud *HUDSystem) AddMessage(msg string) {
	hud.messages = append(hud.messages, Message{Text: msg, remaining: messageLifetime})
	if len(hud.messages) > maxMessages {
		hud.messages = hud.messages[len(hud.messages)-maxMessages:]
	}
}

// Messages returns the messages currently shown
func (hud *HUDSystem) Messages() []Message {
	return hud.messages
}

// Lines returns the text lines for the current state.
func (hud *HUDSystem) Lines() []string {
	snap := hud.snapshot
	lines := []string{
		fmt.Sprintf("Level %d: %s", snap.LevelID, snap.LevelName),
		fmt.Sprintf("Score %d   Birds %d", snap.Score, snap.BirdsLeft),
	}
	switch snap.Status {
	case engine.StatusWon:
		lines = append(lines, fmt.Sprintf("Level cleared! %s  [N] next  [R] retry", starString(snap.Stars)))
	case engine.StatusLost:
		lines = append(lines, "Out of birds  [R] retry")
	}
	if hud.autopilot != "" {
		lines = append(lines, "Autopilot: "+hud.autopilot)
	}
	for _, m := range hud.messages {
		lines = append(lines, m.Text)
	}
	return lines
}

func starString(stars int) string {
	return strings.Repeat("*", stars) + strings.Repeat("-", 3-min(stars, 3))
}

// SetFont sets the HUD font and the sink the text is drawn into
func (hud *HUDSystem) SetFont(font *common.Font, sink SpriteSystem) {
	hud.font = font
	hud.sink = sink
}

func (hud *HUDSystem) draw() {
	if hud.font == nil || hud.sink == nil {
		return
	}
	lines := hud.Lines()
	for i, text := range lines {
		if i == len(hud.lines) {
			line := newSprite(common.Text{Font: hud.font}, zDots+1)
			line.Color = color.White
			line.SetShader(common.HUDShader)
			line.Position = engo.Point{X: hudMargin, Y: float32(hudMargin + i*hudLineHeight)}
			hud.lines = append(hud.lines, line)
			hud.sink.Add(&line.BasicEntity, &line.RenderComponent, &line.SpaceComponent)
		}
		line := hud.lines[i]
		line.Drawable = common.Text{Font: hud.font, Text: text}
		line.Hidden = false
	}
	for _, line := range hud.lines[len(lines):] {
		line.Hidden = true
	}
}
