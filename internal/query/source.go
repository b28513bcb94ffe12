package query

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"firecalls/internal/storage"
)

// Source is the relation queries read from.
type Source interface {
	// Namespace holds the table and any helper functions.
	Namespace() string
	// Ref returns the quoted relation reference, materializing it if needed.
	Ref(ctx context.Context) (string, error)
}

type table struct {
	ns, ref string
}

// Table reads straight from ns.name.
func Table(d storage.Dialect, ns, name string) Source {
	return table{ns: ns, ref: d.Qualify(ns, name)}
}

func (t table) Namespace() string                   { return t.ns }
func (t table) Ref(context.Context) (string, error) { return t.ref, nil }

// Cache is a full copy of a table, created on the first Ref call. Concurrent
// first callers wait for a single creation. A failed creation is retried by
// the next caller.
type Cache struct {
	repo        storage.Repository
	ns          string
	table, name string

	mu    sync.Mutex
	ready bool
}

var _ Source = (*Cache)(nil)

// NewCache describes a cache called name over ns.table. Nothing is created
// until the first Ref.
func NewCache(repo storage.Repository, ns, table, name string) *Cache {
	return &Cache{repo: repo, ns: ns, table: table, name: name}
}

func (c *Cache) Namespace() string { return c.ns }

// Ref creates the cache on first use, replacing any stale copy left by an
// earlier run, and returns its reference.
func (c *Cache) Ref(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.repo.Dialect()
	if c.ready {
		return d.CacheRef(c.ns, c.name), nil
	}

	start := time.Now()
	for _, stmt := range d.DropCache(c.ns, c.name) {
		if err := c.repo.Exec(ctx, stmt); err != nil {
			return "", fmt.Errorf("cache %s: drop stale: %w", c.name, err)
		}
	}
	if err := c.repo.Exec(ctx, d.CreateCache(c.ns, c.name, d.Qualify(c.ns, c.table))); err != nil {
		return "", fmt.Errorf("cache %s: create: %w", c.name, err)
	}
	c.ready = true
	log.Printf("query: cache=%s materialized elapsed=%s", c.name, time.Since(start).Truncate(time.Millisecond))
	return d.CacheRef(c.ns, c.name), nil
}

// Drop removes the cache; the next Ref recreates it.
func (c *Cache) Drop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stmt := range c.repo.Dialect().DropCache(c.ns, c.name) {
		if err := c.repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("cache %s: drop: %w", c.name, err)
		}
	}
	c.ready = false
	return nil
}
