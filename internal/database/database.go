package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool holds the connection pool limits applied to every handle.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (p Pool) validate() error {
	if p.MaxOpenConns <= 0 {
		return errors.New("max open connections must be positive")
	}

	if p.MaxIdleConns < 0 || p.MaxIdleConns > p.MaxOpenConns {
		return fmt.Errorf("max idle connections must be between 0 and %d", p.MaxOpenConns)
	}

	if p.ConnMaxLifetime < 0 {
		return errors.New("connection lifetime must not be negative")
	}

	return nil
}

// Open configures a pgx-backed handle without connecting.
func Open(connStr string, pool Pool) (*sql.DB, error) {
	if err := pool.validate(); err != nil {
		return nil, fmt.Errorf("invalid pool settings: %w", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}

// New opens the handle and checks the server is reachable.
func New(ctx context.Context, connStr string, pool Pool) (*sql.DB, error) {
	db, err := Open(connStr, pool)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
