package postgres

import (
	"strings"
	"testing"

	"firecalls/internal/storage"
)

func TestDialectRendering(t *testing.T) {
	t.Parallel()

	d := Dialect{}
	date, err := d.ParseDate("ns", `"CallDate"`, storage.MustDatePattern("MM/dd/yyyy"))
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"qualify", d.Qualify("fire_response_db", "t"), `"fire_response_db"."t"`},
		{"truncate", d.Truncate("ns", "t"), `TRUNCATE TABLE "ns"."t"`},
		{"parse date", date, `"ns"."fc_to_date"("CallDate", 'MM/DD/YYYY', '^[0-9]{2}/[0-9]{2}/[0-9]{4}$')`},
		{"year", d.Year("x"), "CAST(EXTRACT(YEAR FROM x) AS INTEGER)"},
		{"iso week", d.ISOWeek("x"), "CAST(EXTRACT(WEEK FROM x) AS INTEGER)"},
		{"order asc", d.Order("c", false), "c ASC NULLS FIRST"},
		{"order desc", d.Order("c", true), "c DESC NULLS LAST"},
		{"cache", d.CreateCache("ns", "cache", `"ns"."t"`), `CREATE MATERIALIZED VIEW IF NOT EXISTS "ns"."cache" AS SELECT * FROM "ns"."t"`},
		{"drop cache", d.DropCache("ns", "cache")[0], `DROP MATERIALIZED VIEW IF EXISTS "ns"."cache"`},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	if top, tail := d.Limit(10); top != "" || tail != "LIMIT 10" {
		t.Errorf("Limit(10) = %q, %q", top, tail)
	}
	setup := d.Setup("ns")
	if len(setup) != 1 || !strings.Contains(setup[0], `FUNCTION "ns"."fc_to_date"`) {
		t.Errorf("Setup() = %v", setup)
	}
}
