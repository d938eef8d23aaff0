package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/staffrevenue/revenue-manager/internal/config"
)

// ErrStoreUnavailable is returned for any call made while the store is not ready
var ErrStoreUnavailable = errors.New("store unavailable")

// ConnState is the lifecycle state of the store
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateReady
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// DBTX is the query surface shared by the store and its transactions
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store owns the single embedded database connection
type Store struct {
	db    *sqlx.DB
	state atomic.Int32
}

// BuildDSN builds the go-sqlite3 DSN for a database file.
// Transactions take the write lock up front (BEGIN IMMEDIATE).
func BuildDSN(path string, busyTimeoutMS int) string {
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		base := path
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%s_foreign_keys=on&_txlock=immediate", base, sep)
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_txlock=immediate&_journal_mode=WAL",
		path, busyTimeoutMS)
}

// Connect opens the database file with the single connection model, without migrating
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if !strings.Contains(cfg.Path, "memory") {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", BuildDSN(cfg.Path, cfg.BusyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: every statement and transaction is serialized by the pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return db, nil
}

// Open connects, applies pending migrations and returns a ready store
func Open(cfg config.DatabaseConfig) (*Store, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return NewStore(db), nil
}

// NewStore wraps an already configured handle and marks it ready
func NewStore(db *sqlx.DB) *Store {
	s := &Store{db: db}
	s.state.Store(int32(StateReady))
	return s
}

// State returns the current lifecycle state
func (s *Store) State() ConnState {
	return ConnState(s.state.Load())
}

// IsReady reports whether the store accepts queries
func (s *Store) IsReady() bool {
	return s.State() == StateReady
}

// DB returns the underlying handle (migrations, maintenance tools)
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// GetContext wraps sqlx.GetContext
func (s *Store) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if !s.IsReady() {
		return ErrStoreUnavailable
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

// SelectContext wraps sqlx.SelectContext
func (s *Store) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if !s.IsReady() {
		return ErrStoreUnavailable
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

// ExecContext wraps sqlx.ExecContext
func (s *Store) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if !s.IsReady() {
		return nil, ErrStoreUnavailable
	}
	return s.db.ExecContext(ctx, query, args...)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, so fn either fully applies or not at all.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if !s.IsReady() {
		return ErrStoreUnavailable
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if !s.IsReady() {
		return ErrStoreUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close closes the database. Subsequent calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	if ConnState(s.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}
	return s.db.Close()
}
