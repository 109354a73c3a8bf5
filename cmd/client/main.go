// cmd/client/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"golang.org/x/term"

	"github.com/opd-ai/go-slingshot/pkg/arcade"
	"github.com/opd-ai/go-slingshot/pkg/config"
	"github.com/opd-ai/go-slingshot/pkg/engine"
	"github.com/opd-ai/go-slingshot/pkg/level"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/progress"
	"github.com/opd-ai/go-slingshot/pkg/render"
	engorender "github.com/opd-ai/go-slingshot/pkg/render/engo"
	"github.com/opd-ai/go-slingshot/pkg/validation"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	startLevel := flag.Int("level", 1, "Level to start on")
	renderer := flag.String("renderer", "engo", "Renderer type: 'engo' or 'terminal'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1200, "Window width (Engo only)")
	height := flag.Int("height", 800, "Window height (Engo only)")
	fontPath := flag.String("font", "", "TTF font for the HUD (Engo only)")
	pilot := flag.String("autopilot", "sniper", "Autopilot behavior: sniper, scatter or demolish")
	exportCode := flag.Bool("export", false, "Print a progress export code and exit")
	importCode := flag.String("import", "", "Replace saved progress with an export code")
	reset := flag.Bool("reset", false, "Erase saved progress")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := context.Background()

	gameConfig, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	behavior, err := engine.ParseBehavior(*pilot)
	if err != nil {
		logger.Error(ctx, "Invalid autopilot", err)
		os.Exit(1)
	}

	catalog, err := level.Load(gameConfig.LevelsPath)
	if err != nil {
		logger.Error(ctx, "Failed to load levels", err, "levels_path", gameConfig.LevelsPath)
		os.Exit(1)
	}

	saved := progress.New()
	if gameConfig.ProgressPath != "" {
		saved, err = progress.Load(gameConfig.ProgressPath)
		if err != nil {
			logger.Warn(ctx, "Progress unreadable, starting fresh", "path", gameConfig.ProgressPath, "error", err)
			saved = progress.New()
		}
	}

	switch {
	case *exportCode:
		code, err := saved.Export()
		if err != nil {
			logger.Error(ctx, "Failed to export progress", err)
			os.Exit(1)
		}
		fmt.Println(code)
		return
	case *importCode != "":
		imported, err := progress.Import(*importCode)
		if err != nil {
			logger.Error(ctx, "Invalid export code", err)
			os.Exit(1)
		}
		saved = imported
	case *reset:
		saved.Reset()
	}
	if (*importCode != "" || *reset) && gameConfig.ProgressPath != "" {
		if err := saved.Save(gameConfig.ProgressPath); err != nil {
			logger.Error(ctx, "Failed to save progress", err, "path", gameConfig.ProgressPath)
			os.Exit(1)
		}
	}

	switch *renderer {
	case "terminal":
		if err := startTerminalRenderer(gameConfig, catalog, saved, *startLevel, behavior); err != nil {
			logger.Error(ctx, "Terminal game failed", err)
			os.Exit(1)
		}
	case "engo":
		fallthrough
	default:
		startEngoRenderer(gameConfig, catalog, *startLevel, engorender.SceneOptions{
			Progress:     saved,
			ProgressPath: gameConfig.ProgressPath,
			Logger:       logger,
			FontPath:     *fontPath,
			Autopilot:    behavior,
			Seed:         uint64(time.Now().UnixNano()),
		}, *width, *height, *fullscreen)
	}
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration", "config_path", path)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	return gameConfig, nil
}

// startEngoRenderer opens the game window
func startEngoRenderer(cfg *config.GameConfig, catalog *level.Catalog, startLevel int, opts engorender.SceneOptions, width, height int, fullscreen bool) {
	scene := engorender.NewGameScene(cfg, catalog, startLevel, opts)

	engo.Run(engo.RunOptions{
		Title:      "Go Slingshot",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}, scene)
}

// startTerminalRenderer plays in the current terminal until the player quits
func startTerminalRenderer(cfg *config.GameConfig, catalog *level.Catalog, saved *progress.Progress, startLevel int, behavior engine.Behavior) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("terminal renderer needs an interactive terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game, err := arcade.NewSession(ctx, arcade.Options{
		Config:     cfg,
		Catalog:    catalog,
		Output:     os.Stdout,
		Size:       render.StdoutSize,
		Logger:     logging.Discard(),
		Progress:   saved,
		Player:     validation.DisplayName(os.Getenv("USER")),
		StartLevel: startLevel,
		Autopilot:  behavior,
		Seed:       uint64(time.Now().UnixNano()),
	})
	if err != nil {
		return err
	}

	runErr := game.Run(ctx, os.Stdin)
	if err := game.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if cfg.ProgressPath != "" {
		if err := saved.Save(cfg.ProgressPath); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}
