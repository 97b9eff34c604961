package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amalgamgame/amalgam-server-go/internal/config"
	"github.com/amalgamgame/amalgam-server-go/internal/game"
	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
	"github.com/amalgamgame/amalgam-server-go/internal/repository"
	"github.com/amalgamgame/amalgam-server-go/internal/server"
	"github.com/amalgamgame/amalgam-server-go/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Amalgam server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if cfg.Auth.AdminPasswordHash == "" {
		logger.Warn("admin password not configured; admin commands disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Board geometry: built-in standard board unless an external
	// definition file is configured.
	boardDef := board.StandardDefinition()
	if cfg.Board.GeometryPath != "" {
		boardDef, err = board.LoadDefinition(cfg.Board.GeometryPath)
		if err != nil {
			logger.Fatal("failed to load board geometry", zap.Error(err))
		}
		logger.Info("board geometry loaded", zap.String("path", cfg.Board.GeometryPath))
	}

	// Match archive is optional: without a database URL the server runs
	// in-memory only.
	var matchRepo *repository.MatchRepository
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		matchRepo = repository.NewMatchRepository(db)
		if err := matchRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure match schema", zap.Error(err))
		}
	} else {
		logger.Info("no database configured; match archiving disabled")
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, logger)
	logger.Info("session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
	)
	go sessionMgr.CleanupExpired(ctx)

	engine := game.NewEngine(boardDef, rules.StandardPieceDefinitions(), logger)
	logger.Info("game engine initialized")

	srv := server.New(cfg.Server, cfg.Auth, sessionMgr, engine, matchRepo, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	logger.Info("Amalgam server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			logger.Error("websocket server error", zap.Error(err))
		}
	}

	logger.Info("shutting down gracefully...")
	cancel()
	sessionMgr.CloseAll()

	logger.Info("Amalgam server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
