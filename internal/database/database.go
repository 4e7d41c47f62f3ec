// Package database owns the process-wide PostgreSQL connection pool.
//
// The pool is created once at startup with New and released with Close at
// shutdown; nothing in the service reopens it implicitly.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

type Database struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

// New parses cfg.DSN, opens the pool and pings it. When traceSQL is set
// every statement is logged through log.
func New(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger, traceSQL bool) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if traceSQL {
		poolConfig.ConnConfig.Tracer = logger.QueryTracer(log)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(cfg.DSN), err)
	}

	log.Info().Str("dsn", RedactDSN(cfg.DSN)).Int32("max_conns", poolConfig.MaxConns).Msg("database connection OK")
	return &Database{Pool: pool, log: log}, nil
}

// Ping reports whether the pool can reach the server.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *Database) Close() {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
