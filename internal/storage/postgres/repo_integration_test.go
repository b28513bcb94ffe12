package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
)

// startPostgres runs a throwaway Postgres container. Set FIRECALLS_PG_IT=1 to
// enable; Docker is required.
func startPostgres(t *testing.T) string {
	t.Helper()
	if os.Getenv("FIRECALLS_PG_IT") != "1" {
		t.Skip("skipping integration test: set FIRECALLS_PG_IT=1 to run")
	}
	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithUsername("firecalls"),
		tcpostgres.WithPassword("firecalls"),
		tcpostgres.WithDatabase("firecalls"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestRepositoryIntegration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer closeFn()

	d := repo.Dialect()
	cols := []schema.Column{
		{Name: "CallNumber", Type: schema.Int, Nullable: true},
		{Name: "CallDate", Type: schema.Text, Nullable: true},
		{Name: "ALSUnit", Type: schema.Bool, Nullable: true},
		{Name: "Delay", Type: schema.Float, Nullable: true},
	}

	require.NoError(t, repo.DropNamespace(ctx, "it_ns"))
	require.NoError(t, repo.EnsureNamespace(ctx, "it_ns"))
	require.NoError(t, repo.EnsureNamespace(ctx, "it_ns"))
	for _, s := range d.Setup("it_ns") {
		require.NoError(t, repo.Exec(ctx, s))
	}
	stmts, err := d.CreateTable("it_ns", "calls", cols)
	require.NoError(t, err)
	for _, s := range stmts {
		require.NoError(t, repo.Exec(ctx, s))
	}

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, d.Truncate("it_ns", "calls")))
	n, err := tx.CopyFrom(ctx, "it_ns", "calls", schema.Names(cols), [][]any{
		{int64(1), "2018-03-05", true, 3.0},
		{int64(2), "2019-01-01", false, 7.5},
		{int64(3), "2018-02-30", nil, nil},
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	require.NoError(t, tx.Commit(ctx))

	date, err := d.ParseDate("it_ns", `"CallDate"`, storage.MustDatePattern("yyyy-MM-dd"))
	require.NoError(t, err)
	set, err := repo.Query(ctx, "SELECT "+d.Year(date)+" AS y, "+d.ISOWeek(date)+` AS w, SUM("CallNumber") AS s FROM `+
		d.Qualify("it_ns", "calls")+" GROUP BY 1, 2 ORDER BY "+d.Order("y", false))
	require.NoError(t, err)
	require.Equal(t, []string{"y", "w", "s"}, set.Columns)
	require.Equal(t, [][]any{
		{nil, nil, int64(3)},
		{int64(2018), int64(10), int64(1)},
		{int64(2019), int64(1), int64(2)},
	}, set.Rows)

	require.NoError(t, repo.DropNamespace(ctx, "it_ns"))
	require.NoError(t, repo.DropNamespace(ctx, "it_ns"))
}
