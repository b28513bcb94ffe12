package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleJSON = `{
  "job": "sf-fire",
  "source": { "kind": "file", "file": { "path": "testdata/calls.csv" } },
  "parser": { "kind": "csv", "options": { "has_header": true, "comma": ";", "trim_space": true } },
  "storage": { "kind": "postgres", "db": { "dsn": "postgres://u@h/db", "namespace": "ns", "table": "t", "cache": true } },
  "queries": { "date_pattern": "MM/dd/yyyy", "year": 2019, "zipcodes": [94110], "only": ["delay_stats", "3"] },
  "runtime": { "batch_size": 100, "query_workers": 2 }
}`

const sampleYAML = `
job: sf-fire
source:
  kind: file
  file:
    path: testdata/calls.csv
parser:
  kind: csv
  options:
    has_header: true
    comma: ";"
    trim_space: true
storage:
  kind: postgres
  db:
    dsn: postgres://u@h/db
    namespace: ns
    table: t
    cache: true
queries:
  date_pattern: MM/dd/yyyy
  year: 2019
  zipcodes: [94110]
  only: [delay_stats, "3"]
runtime:
  batch_size: 100
  query_workers: 2
`

// JSON and YAML spellings of the same workflow decode identically, apart
// from the numeric representation inside Options.
func TestDecode_JSONAndYAML(t *testing.T) {
	t.Parallel()

	fromJSON, err := Decode([]byte(sampleJSON), ".json")
	if err != nil {
		t.Fatalf("Decode(json) error = %v", err)
	}
	fromYAML, err := Decode([]byte(sampleYAML), ".YML")
	if err != nil {
		t.Fatalf("Decode(yaml) error = %v", err)
	}

	for name, w := range map[string]Workflow{"json": fromJSON, "yaml": fromYAML} {
		if w.Job != "sf-fire" || w.Source.File.Path != "testdata/calls.csv" {
			t.Fatalf("%s: job/source = %q/%q", name, w.Job, w.Source.File.Path)
		}
		if got := w.Parser.Options.Rune("comma", ','); got != ';' {
			t.Fatalf("%s: comma = %q, want ';'", name, got)
		}
		if !w.Parser.Options.Bool("trim_space", false) {
			t.Fatalf("%s: trim_space = false", name)
		}
		if !w.Storage.DB.Cache || w.Storage.DB.Namespace != "ns" {
			t.Fatalf("%s: storage = %+v", name, w.Storage)
		}
		if w.Queries.Year != 2019 || !reflect.DeepEqual(w.Queries.Zipcodes, []int64{94110}) {
			t.Fatalf("%s: queries = %+v", name, w.Queries)
		}
		if !reflect.DeepEqual(w.Queries.Only, []string{"delay_stats", "3"}) {
			t.Fatalf("%s: only = %v", name, w.Queries.Only)
		}
		if w.Runtime != (RuntimeConfig{BatchSize: 100, QueryWorkers: 2}) {
			t.Fatalf("%s: runtime = %+v", name, w.Runtime)
		}
	}
}

func TestDecode_ZeroDelayThresholdKept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ext  string
	}{
		{"json", `{"queries": {"delay_threshold": 0}}`, ".json"},
		{"yaml", "queries:\n  delay_threshold: 0\n", ".yaml"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := Decode([]byte(tt.in), tt.ext)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			got := w.WithDefaults().Queries.DelayThreshold
			if got == nil || *got != 0 {
				t.Fatalf("delay_threshold = %v, want 0", got)
			}
		})
	}
}

func TestDecode_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"jobb": "x"}`), ".json"); err == nil {
		t.Fatalf("json: want unknown field error")
	}
	if _, err := Decode([]byte("jobb: x\n"), ".yaml"); err == nil {
		t.Fatalf("yaml: want unknown field error")
	}
}

func TestLoad_ByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "wf.yaml")
	if err := os.WriteFile(p, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if w.Storage.Kind != "postgres" {
		t.Fatalf("storage.kind = %q", w.Storage.Kind)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("Load(missing) error = nil")
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	w := Workflow{Source: Source{File: SourceFile{Path: "calls.csv"}}}.WithDefaults()

	if w.Job != DefaultJob || w.Source.Kind != "file" || w.Parser.Kind != "csv" {
		t.Fatalf("top-level defaults = %+v", w)
	}
	db := w.Storage.DB
	if w.Storage.Kind != "sqlite" || db.Namespace != DefaultNamespace || db.Table != DefaultTable ||
		db.CacheName != DefaultCacheName || db.Warehouse != DefaultWarehouse {
		t.Fatalf("storage defaults = %+v", w.Storage)
	}
	q := w.Queries
	if q.DatePattern != "yyyy-MM-dd" || q.Year != 2018 || q.DelayThreshold == nil || *q.DelayThreshold != 5.0 || q.TopN != 10 {
		t.Fatalf("query defaults = %+v", q)
	}
	if !reflect.DeepEqual(q.Zipcodes, []int64{94102, 94103}) {
		t.Fatalf("zipcodes = %v", q.Zipcodes)
	}
	if w.Runtime.BatchSize != DefaultBatchSize || w.Runtime.QueryWorkers != DefaultQueryWorkers {
		t.Fatalf("runtime defaults = %+v", w.Runtime)
	}
	if w.Parser.Options == nil {
		t.Fatalf("parser options nil")
	}

	// Defaults do not alias the package-level slice.
	w.Queries.Zipcodes[0] = 1
	if DefaultZipcodes[0] != 94102 {
		t.Fatalf("DefaultZipcodes mutated")
	}

	zero := 0.0
	explicit := Workflow{Queries: Queries{DelayThreshold: &zero}}.WithDefaults()
	if explicit.Queries.DelayThreshold == nil || *explicit.Queries.DelayThreshold != 0 {
		t.Fatalf("explicit zero threshold = %v, want 0", explicit.Queries.DelayThreshold)
	}

	pg := Workflow{Storage: Storage{Kind: "postgres"}}.WithDefaults()
	if pg.Storage.DB.Warehouse != "" {
		t.Fatalf("postgres got a warehouse default")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvDSN:          "postgres://env/db",
		EnvSource:       "https://data.example.org/calls.csv",
		EnvStorageKind:  " Postgres ",
		EnvBatchSize:    "250",
		EnvQueryWorkers: "3",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	var w Workflow
	if err := w.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if w.Storage.DB.DSN != "postgres://env/db" || w.Storage.Kind != "postgres" {
		t.Fatalf("storage = %+v", w.Storage)
	}
	if w.Source.Kind != "http" || w.Source.HTTP.URL != env[EnvSource] {
		t.Fatalf("source = %+v", w.Source)
	}
	if w.Runtime.BatchSize != 250 || w.Runtime.QueryWorkers != 3 {
		t.Fatalf("runtime = %+v", w.Runtime)
	}

	env[EnvSource] = "local/calls.csv"
	env[EnvBatchSize] = "lots"
	w = Workflow{}
	if err := w.ApplyEnv(lookup); err == nil {
		t.Fatalf("ApplyEnv(bad int) error = nil")
	}
	if w.Source.Kind != "file" || w.Source.File.Path != "local/calls.csv" {
		t.Fatalf("file source = %+v", w.Source)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), false); err != nil {
		t.Fatalf("optional missing env file: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), true); err == nil {
		t.Fatalf("required missing env file: want error")
	}

	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("FIRECALLS_TEST_ENVFILE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("FIRECALLS_TEST_ENVFILE", "")
	os.Unsetenv("FIRECALLS_TEST_ENVFILE")
	if err := LoadEnvFile(p, true); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("FIRECALLS_TEST_ENVFILE"); got != "from-file" {
		t.Fatalf("FIRECALLS_TEST_ENVFILE = %q, want from-file", got)
	}
}

func TestOptions_Accessors(t *testing.T) {
	t.Parallel()

	o := Options{"s": "x", "b": true, "f": float64(3), "i": 4, "tab": `\t`, "empty": ""}
	if o.String("s", "d") != "x" || o.String("missing", "d") != "d" {
		t.Fatalf("String")
	}
	if !o.Bool("b", false) || o.Bool("s", false) {
		t.Fatalf("Bool")
	}
	if o.Int("f", 0) != 3 || o.Int("i", 0) != 4 || o.Int("s", 7) != 7 {
		t.Fatalf("Int")
	}
	if o.Rune("tab", ',') != '\t' || o.Rune("empty", ',') != ',' || o.Rune("s", ',') != 'x' {
		t.Fatalf("Rune")
	}
}
