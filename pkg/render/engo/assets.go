// pkg/render/engo/assets.go
package engo

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-slingshot/pkg/entity"
)

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorTrajectory = color.RGBA{255, 255, 255, 160}
	colorGround     = color.RGBA{101, 67, 33, 255}
	colorSlingshot  = color.RGBA{92, 51, 23, 255}
)

var backgroundColors = map[string]color.RGBA{
	"grassland":  {135, 206, 235, 255},
	"snow":       {200, 225, 245, 255},
	"castle":     {112, 128, 144, 255},
	"desert":     {244, 213, 141, 255},
	"industrial": {96, 96, 110, 255},
}

// AssetManager resolves actor colours and shape drawables. Shapes are drawn
// with engo's built-in primitives, so no textures have to be loaded.
type AssetManager struct {
	colors map[string]color.RGBA
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		colors: make(map[string]color.RGBA),
	}
}

// ParseHexColor parses "#RRGGBB" or "#RGB".
func ParseHexColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Color returns the parsed colour for hex, falling back to white.
func (am *AssetManager) Color(hex string) color.RGBA {
	if c, ok := am.colors[hex]; ok {
		return c
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		c = colorWhite
	}
	am.colors[hex] = c
	return c
}

// ActorColor returns the fill colour of an actor. Damaged pigs and
// structures fade toward their accent colour.
func (am *AssetManager) ActorColor(a *entity.Actor) color.RGBA {
	base := am.Color(a.Color)
	if a.Kind == entity.KindBird || a.Accent == "" {
		return base
	}
	return blend(am.Color(a.Accent), base, a.HealthFraction())
}

// blend mixes from into to; t=1 yields to.
func blend(from, to color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: 255}
}

// Drawable returns the shape primitive for an actor.
func (am *AssetManager) Drawable(a *entity.Actor) common.Drawable {
	if a.Kind == entity.KindStructure {
		return common.Rectangle{BorderWidth: 1, BorderColor: color.Black}
	}
	return common.Circle{BorderWidth: 1, BorderColor: color.Black}
}

// BackgroundColor returns the sky colour for a level background name.
func (am *AssetManager) BackgroundColor(name string) color.RGBA {
	if c, ok := backgroundColors[name]; ok {
		return c
	}
	return backgroundColors["grassland"]
}
