// Package sqldb is the database/sql plumbing shared by the sqlite, mysql and
// mssql backends: statement execution, result scanning and transactions with
// a pluggable bulk insert.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"firecalls/internal/resultset"
	"firecalls/internal/storage"
)

// BulkFn writes rows into ns.table inside tx.
type BulkFn func(ctx context.Context, tx *sql.Tx, ns, table string, columns []string, rows [][]any) (int64, error)

// Repo implements the statement and transaction part of storage.Repository
// on a *sql.DB. Backends embed it and add namespace handling and Close.
type Repo struct {
	DB     *sql.DB
	SQL    storage.Dialect
	Prefix string // error prefix, e.g. "sqlite"
	Bulk   BulkFn
}

// New wraps db.
func New(db *sql.DB, d storage.Dialect, prefix string, bulk BulkFn) *Repo {
	return &Repo{DB: db, SQL: d, Prefix: prefix, Bulk: bulk}
}

func (r *Repo) Dialect() storage.Dialect { return r.SQL }

// Exec runs a statement; blank statements are ignored.
func (r *Repo) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%s: exec: %w", r.Prefix, err)
	}
	return nil
}

// Query runs stmt and scans every row.
func (r *Repo) Query(ctx context.Context, stmt string) (resultset.Set, error) {
	rows, err := r.DB.QueryContext(ctx, stmt)
	if err != nil {
		return resultset.Set{}, fmt.Errorf("%s: query: %w", r.Prefix, err)
	}
	defer rows.Close()
	set, err := Scan(rows)
	if err != nil {
		return resultset.Set{}, fmt.Errorf("%s: scan: %w", r.Prefix, err)
	}
	return set, nil
}

// Begin opens a transaction.
func (r *Repo) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", r.Prefix, err)
	}
	return &Tx{tx: tx, r: r}, nil
}

// Scan drains rows into a resultset.Set, normalizing values by the column's
// database type.
func Scan(rows *sql.Rows) (resultset.Set, error) {
	cols, err := rows.Columns()
	if err != nil {
		return resultset.Set{}, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return resultset.Set{}, err
	}
	set := resultset.Set{Columns: cols}
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return resultset.Set{}, err
		}
		for i, v := range dest {
			dest[i] = resultset.NormalizeTyped(v, types[i].DatabaseTypeName())
		}
		set.Rows = append(set.Rows, dest)
	}
	return set, rows.Err()
}

// Tx adapts *sql.Tx to storage.Tx.
type Tx struct {
	tx *sql.Tx
	r  *Repo
}

func (t *Tx) Exec(ctx context.Context, stmt string) error {
	if _, err := t.tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%s: exec: %w", t.r.Prefix, err)
	}
	return nil
}

func (t *Tx) CopyFrom(ctx context.Context, ns, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: CopyFrom: columns must not be empty", t.r.Prefix)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("%s: CopyFrom: row %d length %d != columns length %d", t.r.Prefix, i, len(row), len(columns))
		}
	}
	return t.r.Bulk(ctx, t.tx, ns, table, columns, rows)
}

func (t *Tx) Commit(context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", t.r.Prefix, err)
	}
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("%s: rollback: %w", t.r.Prefix, err)
	}
	return nil
}

// MultiInsert returns a BulkFn issuing multi-row INSERT ... VALUES statements
// with at most maxParams bind parameters each. placeholder renders the i-th
// (1-based) parameter.
func MultiInsert(d storage.Dialect, placeholder func(i int) string, maxParams int) BulkFn {
	return func(ctx context.Context, tx *sql.Tx, ns, table string, columns []string, rows [][]any) (int64, error) {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = d.QuoteIdent(c)
		}
		head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", d.Qualify(ns, table), strings.Join(quoted, ", "))

		per := maxParams / len(columns)
		if per < 1 {
			per = 1
		}
		var inserted int64
		for start := 0; start < len(rows); start += per {
			end := start + per
			if end > len(rows) {
				end = len(rows)
			}
			chunk := rows[start:end]

			var sb strings.Builder
			sb.WriteString(head)
			args := make([]any, 0, len(chunk)*len(columns))
			n := 0
			for ri, row := range chunk {
				if ri > 0 {
					sb.WriteString(", ")
				}
				sb.WriteByte('(')
				for ci := range columns {
					if ci > 0 {
						sb.WriteString(", ")
					}
					n++
					sb.WriteString(placeholder(n))
				}
				sb.WriteByte(')')
				args = append(args, row...)
			}
			res, err := tx.ExecContext(ctx, sb.String(), args...)
			if err != nil {
				return inserted, fmt.Errorf("insert: %w", err)
			}
			if ra, err := res.RowsAffected(); err == nil {
				inserted += ra
			} else {
				inserted += int64(len(chunk))
			}
		}
		return inserted, nil
	}
}

// QuestionMark is the placeholder style of sqlite and mysql.
func QuestionMark(int) string { return "?" }
