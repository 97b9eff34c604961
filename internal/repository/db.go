package repository

import (
	"context"
	"fmt"

	"github.com/amalgamgame/amalgam-server-go/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the PostgreSQL connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB connects a pgx pool using the database configuration.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{pool: pool, logger: logger}, nil
}

// Pool exposes the underlying pgx pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Stats returns pool statistics for startup logging.
func (db *DB) Stats() *pgxpool.Stat {
	return db.pool.Stat()
}

// Close releases the pool.
func (db *DB) Close() {
	db.pool.Close()
}
