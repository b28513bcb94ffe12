package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"firecalls/internal/storage"
	"firecalls/internal/storage/sqldb"
)

// maxParams stays under SQLITE_MAX_VARIABLE_NUMBER (32766).
const maxParams = 32000

// Repository is a SQLite-backed storage.Repository. Namespaces are database
// files attached to a single pinned connection, so ATTACH and TEMP objects
// stay visible to every statement.
type Repository struct {
	*sqldb.Repo
	cfg Config
}

// NewRepository opens the main database and returns a Repository plus a
// Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = ":memory:"
	}
	if strings.TrimSpace(cfg.Warehouse) == "" {
		return nil, nil, fmt.Errorf("sqlite: warehouse directory must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	d := Dialect{}
	r := &Repository{
		Repo: sqldb.New(db, d, "sqlite", sqldb.MultiInsert(d, sqldb.QuestionMark, maxParams)),
		cfg:  cfg,
	}
	return r, func() { _ = db.Close() }, nil
}

// NamespaceDir is the physical directory owned by namespace ns.
func (r *Repository) NamespaceDir(ns string) string {
	return filepath.Join(r.cfg.Warehouse, ns+".db")
}

func (r *Repository) namespaceFile(ns string) string {
	return filepath.Join(r.NamespaceDir(ns), ns+".sqlite")
}

func (r *Repository) attached(ctx context.Context, ns string) (bool, error) {
	set, err := r.Query(ctx, "PRAGMA database_list")
	if err != nil {
		return false, err
	}
	idx := set.Index("name")
	for _, row := range set.Rows {
		if name, _ := row[idx].(string); strings.EqualFold(name, ns) {
			return true, nil
		}
	}
	return false, nil
}

// EnsureNamespace creates the namespace directory and attaches its database
// file. Both steps are no-ops when already done.
func (r *Repository) EnsureNamespace(ctx context.Context, ns string) error {
	ok, err := r.attached(ctx, ns)
	if err != nil || ok {
		return err
	}
	if err := os.MkdirAll(r.NamespaceDir(ns), 0o755); err != nil {
		return fmt.Errorf("sqlite: create namespace dir: %w", err)
	}
	stmt := fmt.Sprintf("ATTACH DATABASE %s AS %s", storage.QuoteLiteral(r.namespaceFile(ns)), r.SQL.QuoteIdent(ns))
	return r.Exec(ctx, stmt)
}

// DropNamespace detaches the namespace and removes its directory
// recursively. A missing namespace is not an error.
func (r *Repository) DropNamespace(ctx context.Context, ns string) error {
	ok, err := r.attached(ctx, ns)
	if err != nil {
		return err
	}
	if ok {
		if err := r.Exec(ctx, "DETACH DATABASE "+r.SQL.QuoteIdent(ns)); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(r.NamespaceDir(ns)); err != nil {
		return fmt.Errorf("sqlite: remove namespace dir: %w", err)
	}
	return nil
}
