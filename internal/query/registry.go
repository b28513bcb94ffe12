package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Registry is an ordered set of uniquely named specs.
type Registry struct {
	specs []Spec
	index map[string]int
}

// NewRegistry keeps specs in the given order. Names must be unique and
// non-empty.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("query: spec without a name")
		}
		if _, dup := r.index[s.Name]; dup {
			return nil, fmt.Errorf("query: duplicate spec %q", s.Name)
		}
		r.index[s.Name] = len(r.specs)
		r.specs = append(r.specs, s)
	}
	return r, nil
}

func (r *Registry) Len() int { return len(r.specs) }

// Specs returns the specs in registry order.
func (r *Registry) Specs() []Spec {
	return append([]Spec(nil), r.specs...)
}

func (r *Registry) Names() []string {
	out := make([]string, len(r.specs))
	for i, s := range r.specs {
		out[i] = s.Name
	}
	return out
}

func (r *Registry) Get(name string) (Spec, bool) {
	i, ok := r.index[name]
	if !ok {
		return Spec{}, false
	}
	return r.specs[i], true
}

// Select returns the subset named by keys, each a spec name or its 1-based
// position, in registry order. No keys selects everything.
func (r *Registry) Select(keys ...string) (*Registry, error) {
	if len(keys) == 0 {
		return r, nil
	}
	want := make(map[int]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if i, ok := r.index[k]; ok {
			want[i] = true
			continue
		}
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > len(r.specs) {
			return nil, fmt.Errorf("query: unknown query %q; have %s", k, strings.Join(r.Names(), ", "))
		}
		want[n-1] = true
	}
	var picked []Spec
	for i, s := range r.specs {
		if want[i] {
			picked = append(picked, s)
		}
	}
	return NewRegistry(picked...)
}
