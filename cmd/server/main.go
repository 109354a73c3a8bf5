// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/opd-ai/go-slingshot/pkg/arcade"
	"github.com/opd-ai/go-slingshot/pkg/config"
	"github.com/opd-ai/go-slingshot/pkg/engine"
	"github.com/opd-ai/go-slingshot/pkg/health"
	"github.com/opd-ai/go-slingshot/pkg/level"
	"github.com/opd-ai/go-slingshot/pkg/logging"
	"github.com/opd-ai/go-slingshot/pkg/progress"
	"github.com/opd-ai/go-slingshot/pkg/render"
	"github.com/opd-ai/go-slingshot/pkg/resource"
	"github.com/opd-ai/go-slingshot/pkg/validation"
)

const (
	sessionDrainTimeout = 15 * time.Second
	shutdownTimeout     = 30 * time.Second
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	levelsOut := flag.String("levels-out", "", "Write the built-in level catalog to this file and exit")
	flag.Parse()

	if *levelsOut != "" {
		if err := writeBuiltinLevels(*levelsOut); err != nil {
			logger.Error(ctx, "Failed to write level catalog", err, "path", *levelsOut)
			os.Exit(1)
		}
		logger.Info(ctx, "Wrote built-in level catalog", "path", *levelsOut)
		return
	}

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	gameConfig, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	catalog, err := level.Load(gameConfig.LevelsPath)
	if err != nil {
		logger.Error(ctx, "Failed to load levels", err, "levels_path", gameConfig.LevelsPath)
		os.Exit(1)
	}

	baseCtx, cancelSessions := context.WithCancel(ctx)
	defer cancelSessions()

	arcadeServer := &arcadeServer{
		cfg:      gameConfig,
		catalog:  catalog,
		sessions: resource.NewSessionManager(gameConfig.Server.MaxSessions, logger),
		logger:   logger,
		baseCtx:  baseCtx,
	}
	limiter := validation.NewRateLimiter(gameConfig.Server.ConnectionsPerMinute, time.Minute)

	opts := []ssh.Option{
		wish.WithAddress(gameConfig.Server.Address()),
		wish.WithHostKeyPath(gameConfig.Server.HostKeyPath),
		wish.WithMiddleware(
			arcadeServer.middleware,
			activeterm.Middleware(),
			rateLimitMiddleware(limiter, logger),
			wishlogging.Middleware(),
		),
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if gameConfig.Server.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(gameConfig.Server.IdleTimeout))
	}
	if gameConfig.Server.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(gameConfig.Server.MaxTimeout))
	}

	sshServer, err := wish.NewServer(opts...)
	if err != nil {
		logger.Error(ctx, "Failed to create SSH server", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", gameConfig.Server.Address())
	if err != nil {
		logger.Error(ctx, "Failed to listen", err, "address", gameConfig.Server.Address())
		os.Exit(1)
	}

	var serving atomic.Bool
	serving.Store(true)
	go func() {
		logger.Info(ctx, "Starting SSH server",
			"address", gameConfig.Server.Address(),
			"max_sessions", gameConfig.Server.MaxSessions,
			"levels", catalog.Len(),
		)
		if err := sshServer.Serve(listener); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Error(ctx, "SSH server failed", err)
		}
		serving.Store(false)
	}()

	var healthServer *http.Server
	if addr := gameConfig.Server.HealthAddress; addr != "" {
		checker := health.NewChecker()
		checker.Add(health.ListenerCheck(serving.Load))
		checker.Add(health.MemoryCheck(gameConfig.Server.MaxMemoryMB, health.HeapMB))
		checker.Add(arcadeServer.sessions.HealthCheck())

		healthServer = &http.Server{
			Addr:         addr,
			Handler:      checker.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info(ctx, "Starting health check server", "address", addr)
			if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info(ctx, "Shutting down server", "active_sessions", arcadeServer.sessions.Active())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// stop running games first so players see a farewell instead of a dropped link
	cancelSessions()
	drainCtx, cancelDrain := context.WithTimeout(shutdownCtx, sessionDrainTimeout)
	if err := arcadeServer.sessions.Shutdown(drainCtx); err != nil {
		logger.Warn(ctx, "Sessions did not drain", "error", err)
	}
	cancelDrain()

	if err := sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		logger.Error(ctx, "SSH server shutdown failed", err)
	}
	if healthServer != nil {
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health check server shutdown failed", err)
		}
	}
	logger.Info(ctx, "Server stopped", "sessions_served", arcadeServer.sessions.Stats().Total)
}

// loadConfig reads the configuration file when present and applies
// environment overrides on top.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
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

// writeBuiltinLevels saves the embedded catalog as a starting point for
// custom level files.
func writeBuiltinLevels(path string) error {
	catalog, err := level.Default()
	if err != nil {
		return err
	}
	data, err := catalog.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// arcadeServer runs one terminal game per SSH session.
type arcadeServer struct {
	cfg      *config.GameConfig
	catalog  *level.Catalog
	sessions *resource.SessionManager
	logger   *logging.Logger
	baseCtx  context.Context
}

func (a *arcadeServer) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		player := validation.DisplayName(sess.User())
		ctx := logging.WithCorrelationID(sess.Context(), "")
		ctx, stop := context.WithCancel(ctx)
		defer stop()
		stopOnShutdown := context.AfterFunc(a.baseCtx, stop)
		defer stopOnShutdown()

		a.logger.Info(ctx, "New game session",
			"player", player,
			"terminal", pty.Term,
			"width", pty.Window.Width,
			"height", pty.Window.Height,
			"client", validation.ClientKey(sess.RemoteAddr()),
		)

		sizes := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizes.update(win.Width, win.Height)
			}
		}()

		err := a.sessions.Run(ctx, player, func(ctx context.Context) error {
			return a.play(ctx, sess, player, sizes.getSize)
		})
		switch {
		case errors.Is(err, resource.ErrCapacity):
			wish.Fatalln(sess, "The arcade is full, please try again later.")
			return
		case errors.Is(err, resource.ErrShuttingDown):
			wish.Fatalln(sess, "The arcade is closing.")
			return
		case err != nil:
			a.logger.Error(ctx, "Game session failed", err, "player", player)
		}
		next(sess)
	}
}

// play runs the game until the player quits or the session ends. Each
// session keeps its own in-memory progress.
func (a *arcadeServer) play(ctx context.Context, sess ssh.Session, player string, size render.SizeFunc) error {
	p := progress.New()
	p.UnlockThrough(a.cfg.Server.AutoplayLevel)

	game, err := arcade.NewSession(ctx, arcade.Options{
		Config:     a.cfg,
		Catalog:    a.catalog,
		Output:     sess,
		Size:       size,
		Logger:     a.logger,
		Progress:   p,
		Player:     player,
		StartLevel: a.cfg.Server.AutoplayLevel,
		Autopilot:  engine.BehaviorSniper,
		Autoplay:   true,
		Seed:       rand.Uint64(),
	})
	if err != nil {
		return err
	}

	runErr := game.Run(ctx, sess)
	if err := game.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if a.baseCtx.Err() != nil {
		fmt.Fprintln(sess, "Server is restarting, thanks for playing!")
	}
	return runErr
}

// rateLimitMiddleware turns away clients that open connections faster than
// the limiter allows.
func rateLimitMiddleware(limiter *validation.RateLimiter, logger *logging.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			client := validation.ClientKey(sess.RemoteAddr())
			if !limiter.Allow(client) {
				logger.Warn(sess.Context(), "Connection rate limited", "client", client)
				wish.Fatalln(sess, "Too many connections, please wait a minute.")
				return
			}
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ render.SizeFunc = (*sizeTracker)(nil).getSize
