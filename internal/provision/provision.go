// Package provision prepares the namespace and table a run loads into.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
)

// Kind names the provisioning step that failed.
type Kind string

const (
	KindSpec      Kind = "spec"
	KindReset     Kind = "reset"
	KindNamespace Kind = "namespace"
	KindSetup     Kind = "setup"
	KindTable     Kind = "table"
)

// Error is a fatal provisioning failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("provision %s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Spec describes what Provision creates.
type Spec struct {
	Namespace string
	Table     string
	// CacheName is the read-through copy dropped on reset.
	CacheName string
	Columns   []schema.Column
	// Reset destroys the namespace and everything stored in it first.
	Reset bool
}

// Provisioner runs provisioning statements against one repository.
type Provisioner struct {
	repo storage.Repository
}

func New(repo storage.Repository) *Provisioner {
	return &Provisioner{repo: repo}
}

// Reset drops the cache named cacheName and then the namespace ns with all of
// its physical storage. Missing objects are not an error.
func (p *Provisioner) Reset(ctx context.Context, ns, cacheName string) error {
	if strings.TrimSpace(ns) == "" {
		return &Error{Kind: KindSpec, Err: errors.New("namespace must not be empty")}
	}
	d := p.repo.Dialect()
	if cacheName != "" {
		for _, stmt := range d.DropCache(ns, cacheName) {
			// Caches inside the namespace go with it below; only log here.
			if err := p.repo.Exec(ctx, stmt); err != nil {
				log.Printf("provision: drop cache %s: %v", cacheName, err)
			}
		}
	}
	if err := p.repo.DropNamespace(ctx, ns); err != nil {
		return &Error{Kind: KindReset, Err: err}
	}
	log.Printf("provision: reset namespace=%s backend=%s", ns, d.Name())
	return nil
}

// Provision optionally resets, then ensures the namespace, runs the backend
// setup statements and creates the table if it does not exist. It is safe to
// call repeatedly; without Reset an existing table and its rows are kept.
func (p *Provisioner) Provision(ctx context.Context, spec Spec) error {
	switch {
	case strings.TrimSpace(spec.Namespace) == "":
		return &Error{Kind: KindSpec, Err: errors.New("namespace must not be empty")}
	case strings.TrimSpace(spec.Table) == "":
		return &Error{Kind: KindSpec, Err: errors.New("table must not be empty")}
	case len(spec.Columns) == 0:
		return &Error{Kind: KindSpec, Err: errors.New("at least one column is required")}
	}

	if spec.Reset {
		if err := p.Reset(ctx, spec.Namespace, spec.CacheName); err != nil {
			return err
		}
	}

	if err := p.repo.EnsureNamespace(ctx, spec.Namespace); err != nil {
		return &Error{Kind: KindNamespace, Err: err}
	}

	d := p.repo.Dialect()
	for _, stmt := range d.Setup(spec.Namespace) {
		if err := p.repo.Exec(ctx, stmt); err != nil {
			return &Error{Kind: KindSetup, Err: err}
		}
	}

	stmts, err := d.CreateTable(spec.Namespace, spec.Table, spec.Columns)
	if err != nil {
		return &Error{Kind: KindTable, Err: err}
	}
	for _, stmt := range stmts {
		if err := p.repo.Exec(ctx, stmt); err != nil {
			return &Error{Kind: KindTable, Err: err}
		}
	}
	log.Printf("provision: namespace=%s table=%s columns=%d reset=%t",
		spec.Namespace, spec.Table, len(spec.Columns), spec.Reset)
	return nil
}
