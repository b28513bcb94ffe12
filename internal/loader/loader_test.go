package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"firecalls/internal/datasource/file"
	csvparser "firecalls/internal/parser/csv"
	"firecalls/internal/relation"
	"firecalls/internal/resultset"
	"firecalls/internal/schema"
	"firecalls/internal/storage"
	_ "firecalls/internal/storage/sqlite"
)

var callCols = []schema.Column{
	{Name: "CallNumber", Type: schema.Int, Nullable: true},
	{Name: "CallType", Type: schema.Text, Nullable: true},
	{Name: "Delay", Type: schema.Float, Nullable: true},
}

func newSQLite(t *testing.T) storage.Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", Warehouse: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := repo.EnsureNamespace(ctx, "ns"); err != nil {
		t.Fatalf("EnsureNamespace: %v", err)
	}
	stmts, err := repo.Dialect().CreateTable("ns", "calls", callCols)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return repo
}

func readString(t *testing.T, s string) *relation.Relation {
	t.Helper()
	rel, err := csvparser.Read(context.Background(), strings.NewReader(s), csvparser.DefaultOptions())
	if err != nil {
		t.Fatalf("csv.Read: %v", err)
	}
	return rel
}

func target() Target {
	return Target{Namespace: "ns", Table: "calls", Columns: callCols}
}

func TestInsert_LoadsEveryRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSQLite(t)
	rel := readString(t, "Call Number,CallType,Delay\n1,Medical Incident,3\n2,,7.5\n3,Alarms,\n")

	h, err := Insert(ctx, repo, target(), rel, 2)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if h.Count() != 3 || h.Stats().Batches != 2 {
		t.Fatalf("Count() = %d batches = %d, want 3/2", h.Count(), h.Stats().Batches)
	}
	n, err := h.TableCount(ctx)
	if err != nil || n != 3 {
		t.Fatalf("TableCount() = %d, %v; want 3", n, err)
	}

	set, err := repo.Query(ctx, `SELECT "CallNumber", "CallType", "Delay" FROM "ns"."calls" ORDER BY "CallNumber"`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := resultset.Set{Columns: set.Columns, Rows: [][]any{
		{int64(1), "Medical Incident", float64(3)},
		{int64(2), nil, 7.5},
		{int64(3), "Alarms", nil},
	}}
	if set.Fingerprint(true) != want.Fingerprint(true) {
		t.Fatalf("rows = %v, want %v", set.Rows, want.Rows)
	}
}

// A second insert replaces the table contents instead of appending.
func TestInsert_TruncatesFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSQLite(t)
	if _, err := Insert(ctx, repo, target(), readString(t, "CallNumber,CallType,Delay\n1,a,1\n2,b,2\n"), 10); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	h, err := Insert(ctx, repo, target(), readString(t, "CallNumber,CallType,Delay\n9,z,9\n"), 10)
	if err != nil {
		t.Fatalf("second Insert: %v", err)
	}
	if n, _ := h.TableCount(ctx); n != 1 {
		t.Fatalf("TableCount() = %d, want 1", n)
	}
}

// Rejected loads leave the previous contents untouched.
func TestInsert_SchemaErrorsBeforeWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSQLite(t)
	h, err := Insert(ctx, repo, target(), readString(t, "CallNumber,CallType,Delay\n1,a,1\n"), 10)
	if err != nil {
		t.Fatalf("seed Insert: %v", err)
	}

	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"renamed column", "CallNumber,Kind,Delay\n2,b,2\n", "does not match"},
		{"missing column", "CallNumber,CallType\n2,b\n", "declares 3"},
		{"text into int", "CallNumber,CallType,Delay\nx,b,2\n", "not assignable"},
		{"text into float", "CallNumber,CallType,Delay\n2,b,slow\n", "not assignable"},
	}
	for _, tt := range tests {
		_, err := Insert(ctx, repo, target(), readString(t, tt.in), 10)
		var le *Error
		if !errors.As(err, &le) || le.Kind != KindSchema {
			t.Fatalf("%s: error = %v, want KindSchema", tt.name, err)
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Fatalf("%s: error = %v, want %q", tt.name, err, tt.msg)
		}
	}
	if n, _ := h.TableCount(ctx); n != 1 {
		t.Fatalf("TableCount() = %d after rejected loads, want 1", n)
	}
}

func TestCheckHeader_Positional(t *testing.T) {
	t.Parallel()

	unnamed := []relation.Column{{}, {}, {}}
	if err := CheckHeader(unnamed, callCols); err != nil {
		t.Fatalf("unnamed columns: %v", err)
	}
	swapped := []relation.Column{{Name: "CallType"}, {Name: "CallNumber"}, {Name: "Delay"}}
	if err := CheckHeader(swapped, callCols); err == nil {
		t.Fatalf("swapped columns: want error")
	}
}

type failingTx struct {
	storage.Tx
	copyErr    error
	committed  bool
	rolledBack bool
}

func (f *failingTx) Exec(context.Context, string) error { return nil }
func (f *failingTx) Commit(context.Context) error       { f.committed = true; return nil }
func (f *failingTx) Rollback(context.Context) error     { f.rolledBack = true; return nil }

func (f *failingTx) CopyFrom(_ context.Context, _, _ string, _ []string, _ [][]any) (int64, error) {
	return 0, f.copyErr
}

type txRepo struct {
	storage.Repository
	tx *failingTx
}

func (r *txRepo) Begin(context.Context) (storage.Tx, error) { return r.tx, nil }

func TestInsert_RollsBackOnCopyFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	tx := &failingTx{copyErr: boom}
	repo := &txRepo{Repository: newSQLite(t), tx: tx}

	_, err := Insert(context.Background(), repo, target(), readString(t, "CallNumber,CallType,Delay\n1,a,1\n"), 10)
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindInsert || !errors.Is(err, boom) {
		t.Fatalf("error = %v, want KindInsert wrapping %v", err, boom)
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want rollback only", tx.committed, tx.rolledBack)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	_, err := Read(ctx, file.NewLocal(filepath.Join(dir, "missing.csv")), csvparser.DefaultOptions())
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindIO {
		t.Fatalf("missing file error = %v, want KindIO", err)
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("a,b\n1,\"open\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = Read(ctx, file.NewLocal(bad), csvparser.DefaultOptions())
	if !errors.As(err, &le) || le.Kind != KindParse {
		t.Fatalf("malformed file error = %v, want KindParse", err)
	}

	good := filepath.Join(dir, "good.csv")
	if err := os.WriteFile(good, []byte("CallNumber,CallType,Delay\n1,a,2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rel, err := Read(ctx, file.NewLocal(good), csvparser.DefaultOptions())
	if err != nil || rel.Count() != 1 {
		t.Fatalf("Read() = %v, %v; want 1 row", rel, err)
	}
}
