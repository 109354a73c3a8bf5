// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by LoadConfigFromEnv and ApplyEnvironmentOverrides.
const (
	EnvSSHHost         = "SLINGSHOT_SSH_HOST"
	EnvSSHPort         = "SLINGSHOT_SSH_PORT"
	EnvHostKeyPath     = "SLINGSHOT_HOST_KEY_PATH"
	EnvIdleTimeout     = "SLINGSHOT_IDLE_TIMEOUT"
	EnvFrameRate       = "SLINGSHOT_FRAME_RATE"
	EnvLevelsPath      = "SLINGSHOT_LEVELS_PATH"
	EnvProgressPath    = "SLINGSHOT_PROGRESS_PATH"
	EnvShowTrajectory  = "SLINGSHOT_SHOW_TRAJECTORY"
	EnvGravity         = "SLINGSHOT_GRAVITY"
	EnvAirResistance   = "SLINGSHOT_AIR_RESISTANCE"
	EnvGroundFriction  = "SLINGSHOT_GROUND_FRICTION"
	EnvRestitution     = "SLINGSHOT_RESTITUTION"
	EnvGroundY         = "SLINGSHOT_GROUND_Y"
	EnvMaxDragDistance = "SLINGSHOT_MAX_DRAG_DISTANCE"
	EnvRestThreshold   = "SLINGSHOT_REST_THRESHOLD"

	EnvMaxSessions          = "SLINGSHOT_MAX_SESSIONS"
	EnvConnectionsPerMinute = "SLINGSHOT_CONNECTIONS_PER_MINUTE"
	EnvHealthAddress        = "SLINGSHOT_HEALTH_ADDR"
)

// EnvironmentConfig holds the settings that can be supplied through the
// environment.
type EnvironmentConfig struct {
	SSHHost        string
	SSHPort        int
	HostKeyPath    string
	IdleTimeout    time.Duration
	FrameRate      int
	LevelsPath     string
	ProgressPath   string
	ShowTrajectory bool

	MaxSessions          int
	ConnectionsPerMinute int
	HealthAddress        string

	Gravity         float64
	AirResistance   float64
	GroundFriction  float64
	Restitution     float64
	GroundY         float64
	MaxDragDistance float64
	RestThreshold   float64
}

// ValidationError reports a configuration value that is out of range.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv reads the environment on top of the default
// configuration and validates the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	env := loadEnvironment(DefaultConfig())
	if err := ValidateEnvironmentConfig(env); err != nil {
		return nil, fmt.Errorf("environment configuration: %w", err)
	}
	return env, nil
}

// ApplyEnvironmentOverrides overwrites gameConfig with any values set in the
// environment. Unset variables leave the current values untouched.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	env := loadEnvironment(gameConfig)
	if err := ValidateEnvironmentConfig(env); err != nil {
		return fmt.Errorf("environment configuration: %w", err)
	}

	gameConfig.Server.Host = env.SSHHost
	gameConfig.Server.Port = env.SSHPort
	gameConfig.Server.HostKeyPath = env.HostKeyPath
	gameConfig.Server.IdleTimeout = env.IdleTimeout
	gameConfig.Rules.FrameRate = env.FrameRate
	gameConfig.Rules.ShowTrajectory = env.ShowTrajectory
	gameConfig.LevelsPath = env.LevelsPath
	gameConfig.ProgressPath = env.ProgressPath
	gameConfig.Server.MaxSessions = env.MaxSessions
	gameConfig.Server.ConnectionsPerMinute = env.ConnectionsPerMinute
	gameConfig.Server.HealthAddress = env.HealthAddress

	gameConfig.Physics.Gravity = env.Gravity
	gameConfig.Physics.AirResistance = env.AirResistance
	gameConfig.Physics.GroundFriction = env.GroundFriction
	gameConfig.Physics.Restitution = env.Restitution
	gameConfig.Physics.GroundY = env.GroundY
	gameConfig.Physics.MaxDragDistance = env.MaxDragDistance
	gameConfig.Physics.RestThreshold = env.RestThreshold

	return nil
}

func loadEnvironment(base *GameConfig) *EnvironmentConfig {
	return &EnvironmentConfig{
		SSHHost:        getEnvOrDefault(EnvSSHHost, base.Server.Host),
		SSHPort:        getEnvAsIntOrDefault(EnvSSHPort, base.Server.Port),
		HostKeyPath:    getEnvOrDefault(EnvHostKeyPath, base.Server.HostKeyPath),
		IdleTimeout:    getEnvAsDurationOrDefault(EnvIdleTimeout, base.Server.IdleTimeout),
		FrameRate:      getEnvAsIntOrDefault(EnvFrameRate, base.Rules.FrameRate),
		LevelsPath:     getEnvOrDefault(EnvLevelsPath, base.LevelsPath),
		ProgressPath:   getEnvOrDefault(EnvProgressPath, base.ProgressPath),
		ShowTrajectory: getEnvAsBoolOrDefault(EnvShowTrajectory, base.Rules.ShowTrajectory),

		MaxSessions:          getEnvAsIntOrDefault(EnvMaxSessions, base.Server.MaxSessions),
		ConnectionsPerMinute: getEnvAsIntOrDefault(EnvConnectionsPerMinute, base.Server.ConnectionsPerMinute),
		HealthAddress:        getEnvOrDefault(EnvHealthAddress, base.Server.HealthAddress),

		Gravity:         getEnvAsFloatOrDefault(EnvGravity, base.Physics.Gravity),
		AirResistance:   getEnvAsFloatOrDefault(EnvAirResistance, base.Physics.AirResistance),
		GroundFriction:  getEnvAsFloatOrDefault(EnvGroundFriction, base.Physics.GroundFriction),
		Restitution:     getEnvAsFloatOrDefault(EnvRestitution, base.Physics.Restitution),
		GroundY:         getEnvAsFloatOrDefault(EnvGroundY, base.Physics.GroundY),
		MaxDragDistance: getEnvAsFloatOrDefault(EnvMaxDragDistance, base.Physics.MaxDragDistance),
		RestThreshold:   getEnvAsFloatOrDefault(EnvRestThreshold, base.Physics.RestThreshold),
	}
}

// ValidateEnvironmentConfig checks every field for a sane range.
func ValidateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.SSHHost == "" {
		return &ValidationError{Field: "SSHHost", Value: config.SSHHost, Message: "cannot be empty"}
	}
	if config.SSHPort < 1024 || config.SSHPort > 65535 {
		return &ValidationError{Field: "SSHPort", Value: config.SSHPort, Message: "must be between 1024 and 65535"}
	}
	if config.HostKeyPath == "" {
		return &ValidationError{Field: "HostKeyPath", Value: config.HostKeyPath, Message: "cannot be empty"}
	}
	if config.IdleTimeout < 0 {
		return &ValidationError{Field: "IdleTimeout", Value: config.IdleTimeout, Message: "must not be negative"}
	}
	if config.FrameRate < 1 || config.FrameRate > 240 {
		return &ValidationError{Field: "FrameRate", Value: config.FrameRate, Message: "must be between 1 and 240"}
	}
	if config.MaxSessions < 1 {
		return &ValidationError{Field: "MaxSessions", Value: config.MaxSessions, Message: "must be at least 1"}
	}
	if config.ConnectionsPerMinute < 1 {
		return &ValidationError{Field: "ConnectionsPerMinute", Value: config.ConnectionsPerMinute, Message: "must be at least 1"}
	}
	if config.Gravity < 0 || config.Gravity > 10 {
		return &ValidationError{Field: "Gravity", Value: config.Gravity, Message: "must be between 0 and 10"}
	}
	if config.AirResistance <= 0 || config.AirResistance > 1 {
		return &ValidationError{Field: "AirResistance", Value: config.AirResistance, Message: "must be in (0, 1]"}
	}
	if config.GroundFriction <= 0 || config.GroundFriction > 1 {
		return &ValidationError{Field: "GroundFriction", Value: config.GroundFriction, Message: "must be in (0, 1]"}
	}
	if config.Restitution < 0 || config.Restitution > 1 {
		return &ValidationError{Field: "Restitution", Value: config.Restitution, Message: "must be in [0, 1]"}
	}
	if config.GroundY <= 0 {
		return &ValidationError{Field: "GroundY", Value: config.GroundY, Message: "must be positive"}
	}
	if config.MaxDragDistance <= 0 {
		return &ValidationError{Field: "MaxDragDistance", Value: config.MaxDragDistance, Message: "must be positive"}
	}
	if config.RestThreshold < 0 {
		return &ValidationError{Field: "RestThreshold", Value: config.RestThreshold, Message: "must not be negative"}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
