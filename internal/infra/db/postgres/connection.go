package postgres

import (
	"context"
	"fmt"
	"time"

	"kirby-site/internal/infra/metrics"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool connects to the content database and verifies the connection.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool connect: %w", err)
	}
	if err := pool.Ping(cctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgxpool ping: %w", err)
	}
	return pool, nil
}

// PoolStatsJob returns a job that publishes the pool gauges.
func PoolStatsJob(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		s := pool.Stat()
		metrics.SetContentPool(s.TotalConns(), s.IdleConns(), s.AcquiredConns())
		return ctx.Err()
	}
}
