// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// GameConfig contains configuration for a slingshot game
type GameConfig struct {
	Physics      physics.Config `json:"physics"`
	World        WorldConfig    `json:"world"`
	Rules        RulesConfig    `json:"rules"`
	Server       ServerConfig   `json:"server"`
	LevelsPath   string         `json:"levelsPath,omitempty"`
	ProgressPath string         `json:"progressPath,omitempty"`
}

// WorldConfig describes the playfield layout
type WorldConfig struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	SlingshotX       float64 `json:"slingshotX"`
	SlingshotY       float64 `json:"slingshotY"`
	BirdQueueOffset  float64 `json:"birdQueueOffset"`
	BirdQueueSpacing float64 `json:"birdQueueSpacing"`
	FieldMinX        float64 `json:"fieldMinX"`
	FieldMaxX        float64 `json:"fieldMaxX"`
	FieldMaxY        float64 `json:"fieldMaxY"`
}

// Slingshot returns the slingshot anchor point.
func (w WorldConfig) Slingshot() physics.Vector2D {
	return physics.Vector2D{X: w.SlingshotX, Y: w.SlingshotY}
}

// InField reports whether a point is still inside the area a flying bird
// may occupy.
func (w WorldConfig) InField(p physics.Vector2D) bool {
	return p.Y <= w.FieldMaxY && p.X <= w.FieldMaxX && p.X >= w.FieldMinX
}

// RulesConfig contains game rule timings, expressed in simulation ticks
type RulesConfig struct {
	NextBirdDelayTicks int  `json:"nextBirdDelayTicks"`
	LoseGraceTicks     int  `json:"loseGraceTicks"`
	FrameRate          int  `json:"frameRate"`
	AimPreviewSteps    int  `json:"aimPreviewSteps"`
	ShowTrajectory     bool `json:"showTrajectory"`
}

// ServerConfig contains SSH server configuration
type ServerConfig struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	HostKeyPath   string        `json:"hostKeyPath"`
	IdleTimeout   time.Duration `json:"idleTimeout"`
	MaxTimeout    time.Duration `json:"maxTimeout"`
	AutoplayLevel int           `json:"autoplayLevel"`

	MaxSessions          int    `json:"maxSessions"`
	ConnectionsPerMinute int    `json:"connectionsPerMinute"`
	HealthAddress        string `json:"healthAddress,omitempty"`
	MaxMemoryMB          int64  `json:"maxMemoryMB"`
}

// Address returns host:port for listeners.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig loads a configuration from a file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the standard tuning: an 1200x800 field with the
// slingshot at (150, 600) and the ground line at y=680.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Physics: physics.DefaultConfig(),
		World: WorldConfig{
			Width:            1200,
			Height:           800,
			SlingshotX:       150,
			SlingshotY:       600,
			BirdQueueOffset:  60,
			BirdQueueSpacing: 40,
			FieldMinX:        -100,
			FieldMaxX:        1100,
			FieldMaxY:        750,
		},
		Rules: RulesConfig{
			NextBirdDelayTicks: 60,
			LoseGraceTicks:     120,
			FrameRate:          60,
			AimPreviewSteps:    physics.AimPreviewSteps,
			ShowTrajectory:     true,
		},
		Server: ServerConfig{
			Host:          "localhost",
			Port:          23234,
			HostKeyPath:   ".ssh/id_ed25519",
			IdleTimeout:   10 * time.Minute,
			MaxTimeout:    30 * time.Minute,
			AutoplayLevel: 1,

			MaxSessions:          32,
			ConnectionsPerMinute: 10,
			HealthAddress:        "localhost:8080",
			MaxMemoryMB:          512,
		},
	}
}

// Validate checks that the configuration can drive a simulation.
func (c *GameConfig) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return &ValidationError{Field: "Physics", Value: c.Physics, Message: err.Error()}
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return &ValidationError{Field: "World", Value: c.World, Message: "width and height must be positive"}
	}
	if c.World.FieldMinX >= c.World.FieldMaxX {
		return &ValidationError{Field: "World.FieldMinX", Value: c.World.FieldMinX, Message: "must be less than FieldMaxX"}
	}
	if c.Rules.NextBirdDelayTicks < 0 {
		return &ValidationError{Field: "Rules.NextBirdDelayTicks", Value: c.Rules.NextBirdDelayTicks, Message: "must not be negative"}
	}
	if c.Rules.LoseGraceTicks < 0 {
		return &ValidationError{Field: "Rules.LoseGraceTicks", Value: c.Rules.LoseGraceTicks, Message: "must not be negative"}
	}
	if c.Rules.FrameRate < 1 || c.Rules.FrameRate > 240 {
		return &ValidationError{Field: "Rules.FrameRate", Value: c.Rules.FrameRate, Message: "must be between 1 and 240"}
	}
	if c.Server.MaxSessions < 1 {
		return &ValidationError{Field: "Server.MaxSessions", Value: c.Server.MaxSessions, Message: "must be at least 1"}
	}
	if c.Server.ConnectionsPerMinute < 1 {
		return &ValidationError{Field: "Server.ConnectionsPerMinute", Value: c.Server.ConnectionsPerMinute, Message: "must be at least 1"}
	}
	if c.Server.MaxMemoryMB < 1 {
		return &ValidationError{Field: "Server.MaxMemoryMB", Value: c.Server.MaxMemoryMB, Message: "must be at least 1"}
	}
	return nil
}
