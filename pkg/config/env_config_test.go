// pkg/config/env_config_test.go
package config

import (
	"testing"
	"time"
)

// createValidConfig creates a valid EnvironmentConfig for testing
func createValidConfig() *EnvironmentConfig {
	return &EnvironmentConfig{
		SSHHost:        "localhost",
		SSHPort:        23234,
		HostKeyPath:    ".ssh/id_ed25519",
		IdleTimeout:    10 * time.Minute,
		FrameRate:      60,
		ShowTrajectory: true,

		MaxSessions:          32,
		ConnectionsPerMinute: 10,
		HealthAddress:        "localhost:8080",

		Gravity:         0.6,
		AirResistance:   0.99,
		GroundFriction:  0.95,
		Restitution:     0.6,
		GroundY:         680,
		MaxDragDistance: 400,
		RestThreshold:   0.1,
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		config, err := LoadConfigFromEnv()
		if err != nil {
			t.Fatalf("LoadConfigFromEnv() failed: %v", err)
		}
		if config.SSHHost != "localhost" {
			t.Errorf("Expected SSHHost 'localhost', got '%s'", config.SSHHost)
		}
		if config.SSHPort != 23234 {
			t.Errorf("Expected SSHPort 23234, got %d", config.SSHPort)
		}
		if config.Gravity != 0.6 {
			t.Errorf("Expected Gravity 0.6, got %f", config.Gravity)
		}
		if config.IdleTimeout != 10*time.Minute {
			t.Errorf("Expected IdleTimeout 10m, got %v", config.IdleTimeout)
		}
	})

	t.Run("CustomValues", func(t *testing.T) {
		t.Setenv(EnvSSHHost, "0.0.0.0")
		t.Setenv(EnvSSHPort, "2222")
		t.Setenv(EnvIdleTimeout, "45s")
		t.Setenv(EnvFrameRate, "30")
		t.Setenv(EnvGravity, "0.9")
		t.Setenv(EnvShowTrajectory, "false")

		config, err := LoadConfigFromEnv()
		if err != nil {
			t.Fatalf("LoadConfigFromEnv() failed: %v", err)
		}
		if config.SSHHost != "0.0.0.0" {
			t.Errorf("Expected SSHHost '0.0.0.0', got '%s'", config.SSHHost)
		}
		if config.SSHPort != 2222 {
			t.Errorf("Expected SSHPort 2222, got %d", config.SSHPort)
		}
		if config.IdleTimeout != 45*time.Second {
			t.Errorf("Expected IdleTimeout 45s, got %v", config.IdleTimeout)
		}
		if config.FrameRate != 30 {
			t.Errorf("Expected FrameRate 30, got %d", config.FrameRate)
		}
		if config.Gravity != 0.9 {
			t.Errorf("Expected Gravity 0.9, got %f", config.Gravity)
		}
		if config.ShowTrajectory {
			t.Error("Expected ShowTrajectory false")
		}
	})

	t.Run("InvalidValue", func(t *testing.T) {
		t.Setenv(EnvSSHPort, "80")

		if _, err := LoadConfigFromEnv(); err == nil {
			t.Error("Expected validation error for privileged port")
		}
	})
}

func TestValidateEnvironmentConfig(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *EnvironmentConfig)
		expectError bool
		errorField  string
	}{
		{"ValidConfig", func(c *EnvironmentConfig) {}, false, ""},
		{"EmptySSHHost", func(c *EnvironmentConfig) { c.SSHHost = "" }, true, "SSHHost"},
		{"PortTooLow", func(c *EnvironmentConfig) { c.SSHPort = 1023 }, true, "SSHPort"},
		{"PortTooHigh", func(c *EnvironmentConfig) { c.SSHPort = 65536 }, true, "SSHPort"},
		{"EmptyHostKey", func(c *EnvironmentConfig) { c.HostKeyPath = "" }, true, "HostKeyPath"},
		{"NegativeIdle", func(c *EnvironmentConfig) { c.IdleTimeout = -time.Second }, true, "IdleTimeout"},
		{"ZeroIdleAllowed", func(c *EnvironmentConfig) { c.IdleTimeout = 0 }, false, ""},
		{"FrameRateTooLow", func(c *EnvironmentConfig) { c.FrameRate = 0 }, true, "FrameRate"},
		{"FrameRateTooHigh", func(c *EnvironmentConfig) { c.FrameRate = 241 }, true, "FrameRate"},
		{"NegativeGravity", func(c *EnvironmentConfig) { c.Gravity = -1 }, true, "Gravity"},
		{"ZeroAirResistance", func(c *EnvironmentConfig) { c.AirResistance = 0 }, true, "AirResistance"},
		{"FrictionAboveOne", func(c *EnvironmentConfig) { c.GroundFriction = 1.1 }, true, "GroundFriction"},
		{"RestitutionAboveOne", func(c *EnvironmentConfig) { c.Restitution = 1.5 }, true, "Restitution"},
		{"GroundAtZero", func(c *EnvironmentConfig) { c.GroundY = 0 }, true, "GroundY"},
		{"NoDrag", func(c *EnvironmentConfig) { c.MaxDragDistance = 0 }, true, "MaxDragDistance"},
		{"NegativeRest", func(c *EnvironmentConfig) { c.RestThreshold = -0.1 }, true, "RestThreshold"},
		{"NoSessions", func(c *EnvironmentConfig) { c.MaxSessions = 0 }, true, "MaxSessions"},
		{"NoConnections", func(c *EnvironmentConfig) { c.ConnectionsPerMinute = 0 }, true, "ConnectionsPerMinute"},
		{"HealthDisabled", func(c *EnvironmentConfig) { c.HealthAddress = "" }, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)
			err := ValidateEnvironmentConfig(config)

			if !tt.expectError {
				if err != nil {
					t.Errorf("Expected no validation error, but got: %v", err)
				}
				return
			}
			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tt.errorField {
				t.Errorf("Expected error for field '%s', got error for field '%s'", tt.errorField, validationErr.Field)
			}
		})
	}
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvSSHHost, "game.example.com")
	t.Setenv(EnvSSHPort, "2323")
	t.Setenv(EnvLevelsPath, "/srv/levels.yaml")
	t.Setenv(EnvRestitution, "0.4")
	t.Setenv(EnvMaxDragDistance, "250")
	t.Setenv(EnvMaxSessions, "4")
	t.Setenv(EnvHealthAddress, ":9090")

	gameConfig := DefaultConfig()
	gameConfig.Physics.Gravity = 0.7

	if err := ApplyEnvironmentOverrides(gameConfig); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}

	if gameConfig.Server.Address() != "game.example.com:2323" {
		t.Errorf("Expected address game.example.com:2323, got %s", gameConfig.Server.Address())
	}
	if gameConfig.LevelsPath != "/srv/levels.yaml" {
		t.Errorf("Expected LevelsPath /srv/levels.yaml, got %s", gameConfig.LevelsPath)
	}
	if gameConfig.Physics.Restitution != 0.4 {
		t.Errorf("Expected Restitution 0.4, got %f", gameConfig.Physics.Restitution)
	}
	if gameConfig.Physics.MaxDragDistance != 250 {
		t.Errorf("Expected MaxDragDistance 250, got %f", gameConfig.Physics.MaxDragDistance)
	}
	if gameConfig.Server.MaxSessions != 4 {
		t.Errorf("Expected MaxSessions 4, got %d", gameConfig.Server.MaxSessions)
	}
	if gameConfig.Server.HealthAddress != ":9090" {
		t.Errorf("Expected HealthAddress :9090, got %s", gameConfig.Server.HealthAddress)
	}
	if gameConfig.Physics.Gravity != 0.7 {
		t.Errorf("Unset variables must keep file values, got gravity %f", gameConfig.Physics.Gravity)
	}
}

func TestApplyEnvironmentOverrides_InvalidLeavesConfig(t *testing.T) {
	t.Setenv(EnvAirResistance, "2")

	gameConfig := DefaultConfig()
	if err := ApplyEnvironmentOverrides(gameConfig); err == nil {
		t.Fatal("Expected error for invalid air resistance")
	}
	if gameConfig.Physics.AirResistance != 0.99 {
		t.Errorf("Config must not change on error, got %f", gameConfig.Physics.AirResistance)
	}
}

func TestGetEnvHelperFunctions(t *testing.T) {
	t.Setenv("SLINGSHOT_TEST_STRING", "test_value")
	if result := getEnvOrDefault("SLINGSHOT_TEST_STRING", "default"); result != "test_value" {
		t.Errorf("getEnvOrDefault: expected 'test_value', got '%s'", result)
	}
	if result := getEnvOrDefault("SLINGSHOT_TEST_MISSING", "default"); result != "default" {
		t.Errorf("getEnvOrDefault: expected 'default', got '%s'", result)
	}

	t.Setenv("SLINGSHOT_TEST_INT", "42")
	if result := getEnvAsIntOrDefault("SLINGSHOT_TEST_INT", 10); result != 42 {
		t.Errorf("getEnvAsIntOrDefault: expected 42, got %d", result)
	}
	t.Setenv("SLINGSHOT_TEST_INT", "forty")
	if result := getEnvAsIntOrDefault("SLINGSHOT_TEST_INT", 10); result != 10 {
		t.Errorf("getEnvAsIntOrDefault with invalid value: expected 10, got %d", result)
	}

	t.Setenv("SLINGSHOT_TEST_BOOL", "true")
	if result := getEnvAsBoolOrDefault("SLINGSHOT_TEST_BOOL", false); !result {
		t.Errorf("getEnvAsBoolOrDefault: expected true, got %v", result)
	}
	t.Setenv("SLINGSHOT_TEST_BOOL", "maybe")
	if result := getEnvAsBoolOrDefault("SLINGSHOT_TEST_BOOL", false); result {
		t.Errorf("getEnvAsBoolOrDefault with invalid value: expected false, got %v", result)
	}

	t.Setenv("SLINGSHOT_TEST_FLOAT", "3.14")
	if result := getEnvAsFloatOrDefault("SLINGSHOT_TEST_FLOAT", 1.0); result != 3.14 {
		t.Errorf("getEnvAsFloatOrDefault: expected 3.14, got %f", result)
	}
	t.Setenv("SLINGSHOT_TEST_FLOAT", "pi")
	if result := getEnvAsFloatOrDefault("SLINGSHOT_TEST_FLOAT", 1.0); result != 1.0 {
		t.Errorf("getEnvAsFloatOrDefault with invalid value: expected 1.0, got %f", result)
	}

	t.Setenv("SLINGSHOT_TEST_DURATION", "5s")
	if result := getEnvAsDurationOrDefault("SLINGSHOT_TEST_DURATION", time.Second); result != 5*time.Second {
		t.Errorf("getEnvAsDurationOrDefault: expected 5s, got %v", result)
	}
	t.Setenv("SLINGSHOT_TEST_DURATION", "soon")
	if result := getEnvAsDurationOrDefault("SLINGSHOT_TEST_DURATION", time.Second); result != time.Second {
		t.Errorf("getEnvAsDurationOrDefault with invalid value: expected 1s, got %v", result)
	}
}
