// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/opd-ai/go-slingshot/pkg/entity"
	"github.com/opd-ai/go-slingshot/pkg/physics"
	"golang.org/x/term"
)

// ANSI sequences used by the terminal renderer.
const (
	cursorHome  = "\033[H"
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Glyphs drawn by the terminal renderer.
const (
	glyphEmpty      = ' '
	glyphGround     = '='
	glyphSlingshot  = 'Y'
	glyphTrajectory = '.'
)

var birdGlyphs = map[string]rune{
	entity.BirdRed:    'R',
	entity.BirdBlue:   'B',
	entity.BirdYellow: 'Y',
	entity.BirdBlack:  'K',
	entity.BirdWhite:  'W',
}

var pigGlyphs = map[string]rune{
	entity.PigSmall:  'o',
	entity.PigMedium: 'O',
	entity.PigLarge:  '@',
	entity.PigKing:   '&',
}

var materialGlyphs = map[string]rune{
	entity.MaterialWood:  '#',
	entity.MaterialStone: '%',
	entity.MaterialIce:   '+',
	entity.MaterialTNT:   'X',
}

// SizeFunc reports the terminal size in columns and rows.
type SizeFunc func() (width, height int, err error)

// StdoutSize reads the size of the terminal attached to stdout.
func StdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// The whole world is scaled to fit the character grid; one extra line below
// the grid shows a status message.
type TerminalRenderer struct {
	out    io.Writer
	width  int
	height int
	buffer [][]rune

	worldWidth  float64
	worldHeight float64
	scaleX      float64
	scaleY      float64

	groundY   float64
	slingshot *physics.Vector2D
	status    string
	cleared   bool
}

// NewTerminalRenderer creates a renderer that draws a worldWidth x
// worldHeight field into a width x height character grid written to out.
func NewTerminalRenderer(out io.Writer, width, height int, worldWidth, worldHeight float64) *TerminalRenderer {
	r := &TerminalRenderer{
		out:         out,
		worldWidth:  worldWidth,
		worldHeight: worldHeight,
		groundY:     math.NaN(),
	}
	r.Resize(width, height)
	return r
}

// Resize changes the character grid, keeping the world size.
func (r *TerminalRenderer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == r.width && height == r.height {
		return
	}

	r.width = width
	r.height = height
	r.buffer = make([][]rune, height)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, width)
	}
	r.scaleX = float64(width) / r.worldWidth
	r.scaleY = float64(height) / r.worldHeight
	r.cleared = false
}

// FitTerminal resizes the grid to the terminal reported by size, leaving a
// row for the status line.
func (r *TerminalRenderer) FitTerminal(size SizeFunc) error {
	width, height, err := size()
	if err != nil {
		return fmt.Errorf("failed to read terminal size: %w", err)
	}
	r.Resize(width-2, height-3)
	return nil
}

// Size returns the character grid dimensions.
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// SetGround sets the world y of the ground line.
func (r *TerminalRenderer) SetGround(y float64) {
	r.groundY = y
}

// SetSlingshot sets the slingshot anchor drawn each frame.
func (r *TerminalRenderer) SetSlingshot(anchor physics.Vector2D) {
	r.slingshot = &anchor
}

// SetStatus sets the line printed under the field.
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

// worldToScreen converts world coordinates to grid cells
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	return int(math.Floor(pos.X * r.scaleX)), int(math.Floor(pos.Y * r.scaleY))
}

func (r *TerminalRenderer) set(x, y int, glyph rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = glyph
	}
}

// At returns the glyph in a grid cell, or 0 outside the grid.
func (r *TerminalRenderer) At(x, y int) rune {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0
	}
	return r.buffer[y][x]
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = glyphEmpty
		}
	}

	if !math.IsNaN(r.groundY) {
		_, gy := r.worldToScreen(physics.Vector2D{Y: r.groundY})
		for x := 0; x < r.width; x++ {
			r.set(x, gy, glyphGround)
		}
	}
	if r.slingshot != nil {
		x, y := r.worldToScreen(*r.slingshot)
		r.set(x, y+1, glyphSlingshot)
	}
}

// RenderActor implements entity.Renderer
func (r *TerminalRenderer) RenderActor(actor *entity.Actor) {
	if actor == nil || actor.Body == nil {
		return
	}

	switch actor.Kind {
	case entity.KindStructure:
		r.fillRect(actor.Body, glyphOr(materialGlyphs, actor.Variant, '#'))
	case entity.KindPig:
		x, y := r.worldToScreen(actor.Position())
		r.set(x, y, glyphOr(pigGlyphs, actor.Variant, 'o'))
	case entity.KindBird:
		x, y := r.worldToScreen(actor.Position())
		r.set(x, y, glyphOr(birdGlyphs, actor.Variant, 'R'))
	}
}

func (r *TerminalRenderer) fillRect(body *physics.Body, glyph rune) {
	x0, y0 := r.worldToScreen(body.Position)
	x1, y1 := r.worldToScreen(physics.Vector2D{
		X: body.Position.X + body.Shape.Width,
		Y: body.Position.Y + body.Shape.Height,
	})
	// Thin blocks still occupy one cell.
	x1, y1 = max(x1, x0+1), max(y1, y0+1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.set(x, y, glyph)
		}
	}
}

// RenderTrajectory implements entity.Renderer. Points only fill empty cells.
func (r *TerminalRenderer) RenderTrajectory(points []physics.Vector2D) {
	for _, p := range points {
		x, y := r.worldToScreen(p)
		if r.At(x, y) == glyphEmpty {
			r.set(x, y, glyphTrajectory)
		}
	}
}

// Present implements entity.Renderer. The frame is written with a single
// Write call.
func (r *TerminalRenderer) Present() {
	var sb strings.Builder
	sb.Grow((r.width + 4) * (r.height + 3))

	if !r.cleared {
		sb.WriteString(clearScreen)
		sb.WriteString(hideCursor)
		r.cleared = true
	} else {
		sb.WriteString(cursorHome)
	}

	border := "+" + strings.Repeat("-", r.width) + "+\r\n"
	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\r\n")
	}
	sb.WriteString(border)

	status := r.status
	if len(status) > r.width+2 {
		status = status[:r.width+2]
	}
	sb.WriteString(status)
	sb.WriteString(strings.Repeat(" ", r.width+2-len(status)))

	_, _ = io.WriteString(r.out, sb.String())
}

// Close restores the cursor.
func (r *TerminalRenderer) Close() error {
	_, err := io.WriteString(r.out, showCursor+"\r\n")
	return err
}

func glyphOr(glyphs map[string]rune, variant string, fallback rune) rune {
	if g, ok := glyphs[variant]; ok {
		return g
	}
	return fallback
}

var _ entity.Renderer = (*TerminalRenderer)(nil)
