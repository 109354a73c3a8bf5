package level

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var builtinLevels []byte

// Catalog is an ordered set of levels.
type Catalog struct {
	Levels []Definition `yaml:"levels"`
}

// Parse decodes a YAML catalog, rejecting unknown fields, invalid levels and
// duplicate IDs. Levels are sorted by ID.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("level catalog is empty")
		}
		return nil, fmt.Errorf("failed to parse level catalog: %w", err)
	}
	if len(c.Levels) == 0 {
		return nil, errors.New("level catalog has no levels")
	}

	seen := make(map[int]bool, len(c.Levels))
	for i := range c.Levels {
		def := &c.Levels[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate level id %d", def.ID)
		}
		seen[def.ID] = true
	}

	sort.Slice(c.Levels, func(i, j int) bool { return c.Levels[i].ID < c.Levels[j].ID })
	return &c, nil
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(builtinLevels)
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.Levels)
}

// First returns the level with the lowest ID.
func (c *Catalog) First() *Definition {
	return &c.Levels[0]
}

// Last returns the level with the highest ID.
func (c *Catalog) Last() *Definition {
	return &c.Levels[len(c.Levels)-1]
}

// ByID returns the level with the given ID.
func (c *Catalog) ByID(id int) (*Definition, bool) {
	i := sort.Search(len(c.Levels), func(i int) bool { return c.Levels[i].ID >= id })
	if i < len(c.Levels) && c.Levels[i].ID == id {
		return &c.Levels[i], true
	}
	return nil, false
}

// Next returns the level following id in catalog order.
func (c *Catalog) Next(id int) (*Definition, bool) {
	i := sort.Search(len(c.Levels), func(i int) bool { return c.Levels[i].ID > id })
	if i < len(c.Levels) {
		return &c.Levels[i], true
	}
	return nil, false
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode level catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode level catalog: %w", err)
	}
	return buf.Bytes(), nil
}
