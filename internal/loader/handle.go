package loader

import (
	"context"
	"fmt"

	"firecalls/internal/relation"
	"firecalls/internal/storage"
)

// Handle refers to a committed load. It replaces a session-scoped view name:
// whoever holds the handle can see both the relation that was read and the
// table it now lives in.
type Handle struct {
	repo   storage.Repository
	target Target
	rel    *relation.Relation
	stats  storage.BatchStats
}

// Count returns the number of rows inserted.
func (h *Handle) Count() int64 { return h.stats.Rows }

func (h *Handle) Relation() *relation.Relation { return h.rel }
func (h *Handle) Stats() storage.BatchStats    { return h.stats }
func (h *Handle) Target() Target               { return h.target }

// TableCount asks the backend how many rows the target table holds.
func (h *Handle) TableCount(ctx context.Context) (int64, error) {
	d := h.repo.Dialect()
	set, err := h.repo.Query(ctx, "SELECT COUNT(*) AS n FROM "+d.Qualify(h.target.Namespace, h.target.Table))
	if err != nil {
		return 0, err
	}
	if set.Len() != 1 || len(set.Rows[0]) != 1 {
		return 0, fmt.Errorf("count: unexpected result shape %d rows", set.Len())
	}
	switch n := set.Rows[0][0].(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("count: unexpected value %T", n)
	}
}
