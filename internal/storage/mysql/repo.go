// Package mysql provides a MySQL-backed storage.Repository. Namespaces map to
// databases and loads use batched multi-row INSERT statements.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"firecalls/internal/storage/sqldb"
)

// maxParams stays under the 65535 placeholder limit of a prepared statement.
const maxParams = 60000

// Config holds MySQL repository configuration.
type Config struct {
	DSN string
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	*sqldb.Repo
	cfg Config
}

// NewRepository validates the DSN, opens a pool and returns a Repository
// plus a Close function for cleanup. DATE and DATETIME columns are scanned as
// time.Time.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: dsn must not be empty")
	}
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	if mc.Loc == nil {
		mc.Loc = time.UTC
	}
	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(conn)
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}

	d := Dialect{}
	r := &Repository{
		Repo: sqldb.New(db, d, "mysql", sqldb.MultiInsert(d, sqldb.QuestionMark, maxParams)),
		cfg:  cfg,
	}
	return r, func() { _ = db.Close() }, nil
}

// EnsureNamespace creates the namespace database if absent.
func (r *Repository) EnsureNamespace(ctx context.Context, ns string) error {
	return r.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+r.SQL.QuoteIdent(ns))
}

// DropNamespace drops the namespace database and everything in it.
func (r *Repository) DropNamespace(ctx context.Context, ns string) error {
	return r.Exec(ctx, "DROP DATABASE IF EXISTS "+r.SQL.QuoteIdent(ns))
}
