// Package postgres implements the Postgres storage backend using pgx v5.
// Loads use COPY inside a transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"firecalls/internal/resultset"
	"firecalls/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
// Namespaces are schemas.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, func() { pool.Close() }, nil
}

func (r *Repository) Dialect() storage.Dialect { return Dialect{} }

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", pgDetail(err))
	}
	return nil
}

// Query runs sql and normalizes every value.
func (r *Repository) Query(ctx context.Context, sql string) (resultset.Set, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return resultset.Set{}, fmt.Errorf("postgres: query: %w", pgDetail(err))
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	set := resultset.Set{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		set.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return resultset.Set{}, fmt.Errorf("postgres: scan: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		set.Rows = append(set.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return resultset.Set{}, fmt.Errorf("postgres: query: %w", pgDetail(err))
	}
	return set, nil
}

// normalize maps pgx decoded values onto the resultset value set. NUMERIC
// (SUM over BIGINT, AVG) becomes int64 when integral, float64 otherwise.
func normalize(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		if x.Exp >= 0 {
			if i, err := x.Int64Value(); err == nil && i.Valid {
				return i.Int64
			}
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return resultset.Normalize(v)
	}
}

// Begin opens a transaction.
func (r *Repository) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin tx: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

// EnsureNamespace creates the schema if absent.
func (r *Repository) EnsureNamespace(ctx context.Context, ns string) error {
	return r.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+Dialect{}.QuoteIdent(ns))
}

// DropNamespace drops the schema and everything in it.
func (r *Repository) DropNamespace(ctx context.Context, ns string) error {
	return r.Exec(ctx, "DROP SCHEMA IF EXISTS "+Dialect{}.QuoteIdent(ns)+" CASCADE")
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Exec(ctx context.Context, sql string) error {
	if _, err := t.tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", pgDetail(err))
	}
	return nil
}

// CopyFrom streams rows with the COPY protocol.
func (t *pgTx) CopyFrom(ctx context.Context, ns, table string, columns []string, rows [][]any) (int64, error) {
	id := pgx.Identifier{table}
	if ns != "" {
		id = pgx.Identifier{ns, table}
	}
	n, err := t.tx.CopyFrom(ctx, id, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", pgDetail(err))
	}
	return n, nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres: rollback: %w", err)
	}
	return nil
}

// pgDetail folds the server-side detail into the error text when present.
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s)", err, pgErr.Detail)
	}
	return err
}
