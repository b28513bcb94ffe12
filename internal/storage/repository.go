// Package storage contains storage-agnostic contracts and utilities: the
// backend registry, the Repository and Tx contracts, the SQL Dialect each
// backend supplies, and the batched loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"firecalls/internal/resultset"
)

// Config selects and configures a backend.
type Config struct {
	// Kind is the registered backend name: sqlite, postgres, mysql, mssql.
	Kind string
	// DSN is passed to the backend driver.
	DSN string
	// Warehouse is the directory holding per-namespace database files. Only
	// file-based backends use it.
	Warehouse string
}

// Repository is the contract every backend implements.
type Repository interface {
	Dialect() Dialect

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, stmt string) error

	// Query runs a read-only statement and returns its rows normalized.
	Query(ctx context.Context, stmt string) (resultset.Set, error)

	// Begin opens a transaction used for all-or-nothing loads.
	Begin(ctx context.Context) (Tx, error)

	// EnsureNamespace creates the namespace if absent.
	EnsureNamespace(ctx context.Context, ns string) error

	// DropNamespace removes the namespace and all of its physical storage.
	// Absence is not an error.
	DropNamespace(ctx context.Context, ns string) error

	Close()
}

// Tx is a write transaction.
type Tx interface {
	Exec(ctx context.Context, stmt string) error

	// CopyFrom bulk-inserts rows aligned to columns into ns.table and returns
	// the number of rows written.
	CopyFrom(ctx context.Context, ns, table string, columns []string, rows [][]any) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds or replaces the factory for kind. Backends call it from init.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
