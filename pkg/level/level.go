// Package level loads level layouts and turns them into actors.
package level

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/opd-ai/go-slingshot/pkg/entity"
)

// BirdGroup is a run of identical birds in the launch queue.
type BirdGroup struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

// StructureSpec places a block. X and Y are the top-left corner.
type StructureSpec struct {
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Health int     `yaml:"health"`
}

// PigSpec places a pig. X and Y are the centre.
type PigSpec struct {
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Points int     `yaml:"points"`
}

// StarThresholds are the minimum scores for one, two and three stars.
type StarThresholds struct {
	One   int `yaml:"one"`
	Two   int `yaml:"two"`
	Three int `yaml:"three"`
}

// Stars grades a final score.
func (s StarThresholds) Stars(score int) int {
	switch {
	case score >= s.Three:
		return 3
	case score >= s.Two:
		return 2
	case score >= s.One:
		return 1
	default:
		return 0
	}
}

// Definition describes one level.
type Definition struct {
	ID         int             `yaml:"id"`
	Name       string          `yaml:"name"`
	Difficulty string          `yaml:"difficulty"`
	Background string          `yaml:"background,omitempty"`
	Birds      []BirdGroup     `yaml:"birds"`
	Structures []StructureSpec `yaml:"structures"`
	Pigs       []PigSpec       `yaml:"pigs"`
	Stars      StarThresholds  `yaml:"stars"`
}

// BirdCount returns the total number of birds in the queue.
func (d *Definition) BirdCount() int {
	n := 0
	for _, g := range d.Birds {
		n += g.Count
	}
	return n
}

// Validate reports every problem with the definition.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID <= 0 {
		errs = append(errs, fmt.Errorf("id must be positive, got %d", d.ID))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.BirdCount() == 0 {
		errs = append(errs, errors.New("at least one bird is required"))
	}
	for i, g := range d.Birds {
		if g.Count < 0 {
			errs = append(errs, fmt.Errorf("birds[%d]: negative count %d", i, g.Count))
		}
		if !entity.IsBirdVariant(g.Type) {
			errs = append(errs, fmt.Errorf("birds[%d]: unknown bird %q", i, g.Type))
		}
	}
	if len(d.Pigs) == 0 {
		errs = append(errs, errors.New("at least one pig is required"))
	}
	for i, p := range d.Pigs {
		if !entity.IsPigVariant(p.Type) {
			errs = append(errs, fmt.Errorf("pigs[%d]: unknown pig %q", i, p.Type))
		}
		if p.Points < 0 {
			errs = append(errs, fmt.Errorf("pigs[%d]: negative points %d", i, p.Points))
		}
	}
	for i, s := range d.Structures {
		if !entity.IsMaterial(s.Type) {
			errs = append(errs, fmt.Errorf("structures[%d]: unknown material %q", i, s.Type))
		}
		if s.Width <= 0 || s.Height <= 0 {
			errs = append(errs, fmt.Errorf("structures[%d]: size must be positive, got %vx%v", i, s.Width, s.Height))
		}
		if s.Health <= 0 {
			errs = append(errs, fmt.Errorf("structures[%d]: health must be positive, got %d", i, s.Health))
		}
	}
	if d.Stars.One > d.Stars.Two || d.Stars.Two > d.Stars.Three {
		errs = append(errs, fmt.Errorf("star thresholds must not decrease: %+v", d.Stars))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("level %d %q: %w", d.ID, d.Name, err)
	}
	return nil
}

// Clone returns a deep copy that shares no slices with d.
func (d *Definition) Clone() (*Definition, error) {
	out := &Definition{}
	if err := copier.CopyWithOption(out, d, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone level %d: %w", d.ID, err)
	}
	return out, nil
}
