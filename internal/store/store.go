package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the project and place stores over one connection or transaction.
type Store struct {
	db       *sql.DB
	dialect  string
	Projects *ProjectStore
	Places   *PlaceStore
}

// New returns a Store over db. dialect is "sqlite" or "postgres" and selects
// the placeholder style.
func New(db *sql.DB, dialect string) *Store {
	return &Store{
		db:       db,
		dialect:  dialect,
		Projects: &ProjectStore{q: db, dialect: dialect},
		Places:   &PlaceStore{q: db, dialect: dialect},
	}
}

// WithTx runs fn against stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.runTx(ctx, nil, fn)
}

// WithReadTx runs fn in a transaction whose reads share one snapshot. SQLite
// already serializes transactions over its single connection; postgres needs
// REPEATABLE READ for that.
func (s *Store) WithReadTx(ctx context.Context, fn func(tx *Store) error) error {
	var opts *sql.TxOptions
	if s.dialect == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return s.runTx(ctx, opts, fn)
}

func (s *Store) runTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Store{
		db:       s.db,
		dialect:  s.dialect,
		Projects: &ProjectStore{q: sqlTx, dialect: s.dialect},
		Places:   &PlaceStore{q: sqlTx, dialect: s.dialect},
	}

	if err := fn(txStore); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for postgres.
func rebind(dialect, query string) string {
	if dialect != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
