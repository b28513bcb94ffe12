// Package mssql implements a Microsoft SQL Server repository. Namespaces map
// to schemas and loads use the go-mssqldb bulk copy API inside the load
// transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"firecalls/internal/storage/sqldb"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	*sqldb.Repo
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	d := Dialect{}
	r := &Repository{Repo: sqldb.New(db, d, "mssql", bulkCopy(d)), cfg: cfg}
	return r, func() { _ = db.Close() }, nil
}

// bulkCopy streams rows through mssql.CopyIn on the caller's transaction.
func bulkCopy(d Dialect) sqldb.BulkFn {
	return func(ctx context.Context, tx *sql.Tx, ns, table string, columns []string, rows [][]any) (int64, error) {
		stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(d.Qualify(ns, table), mssql.BulkOptions{}, columns...))
		if err != nil {
			return 0, fmt.Errorf("prepare bulk: %w", err)
		}
		for i := range rows {
			if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
				_ = stmt.Close()
				return 0, fmt.Errorf("bulk row %d: %w", i, err)
			}
		}
		res, err := stmt.ExecContext(ctx)
		if cerr := stmt.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return 0, fmt.Errorf("bulk finalize: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		return n, nil
	}
}

const ensureSchemaSQL = `IF SCHEMA_ID(@ns) IS NULL
BEGIN
  DECLARE @stmt nvarchar(max) = N'CREATE SCHEMA ' + QUOTENAME(@ns);
  EXEC sp_executesql @stmt;
END`

// dropSchemaSQL drops views, then tables, then the schema itself.
const dropSchemaSQL = `IF SCHEMA_ID(@ns) IS NOT NULL
BEGIN
  DECLARE @stmt nvarchar(max) = N'';
  SELECT @stmt += N'DROP VIEW ' + QUOTENAME(@ns) + N'.' + QUOTENAME(name) + N'; '
    FROM sys.views WHERE schema_id = SCHEMA_ID(@ns);
  SELECT @stmt += N'DROP TABLE ' + QUOTENAME(@ns) + N'.' + QUOTENAME(name) + N'; '
    FROM sys.tables WHERE schema_id = SCHEMA_ID(@ns);
  SET @stmt += N'DROP SCHEMA ' + QUOTENAME(@ns) + N';';
  EXEC sp_executesql @stmt;
END`

// EnsureNamespace creates the namespace schema if absent.
func (r *Repository) EnsureNamespace(ctx context.Context, ns string) error {
	if _, err := r.DB.ExecContext(ctx, ensureSchemaSQL, sql.Named("ns", ns)); err != nil {
		return fmt.Errorf("mssql: ensure schema %s: %w", ns, err)
	}
	return nil
}

// DropNamespace removes the schema and every table or view in it. A missing
// schema is not an error.
func (r *Repository) DropNamespace(ctx context.Context, ns string) error {
	if _, err := r.DB.ExecContext(ctx, dropSchemaSQL, sql.Named("ns", ns)); err != nil {
		return fmt.Errorf("mssql: drop schema %s: %w", ns, err)
	}
	return nil
}
