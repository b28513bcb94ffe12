package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validWorkflow() Workflow {
	return Workflow{Source: Source{File: SourceFile{Path: "calls.csv"}}}.WithDefaults()
}

func TestValidateWorkflow_DefaultsAreValid(t *testing.T) {
	t.Parallel()

	if issues := ValidateWorkflow(validWorkflow()); len(issues) != 0 {
		t.Fatalf("expected no issues; got %+v", issues)
	}
}

func TestValidateWorkflow_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(w *Workflow)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"empty job", func(w *Workflow) { w.Job = " " }, SeverityError, "job", "must not be empty"},
		{"missing path", func(w *Workflow) { w.Source.File.Path = "" }, SeverityError, "source.file.path", "non-empty path"},
		{"unknown source", func(w *Workflow) { w.Source.Kind = "s3" }, SeverityError, "source.kind", "unknown source kind"},
		{"bad url", func(w *Workflow) { w.Source.Kind = "http"; w.Source.HTTP.URL = "ftp://x" }, SeverityError, "source.http.url", "http(s) url"},
		{"insecure tls", func(w *Workflow) {
			w.Source.Kind = "http"
			w.Source.HTTP.URL = "https://x/calls.csv"
			w.Source.HTTP.InsecureSkipVerify = true
		}, SeverityWarning, "source.http.insecure_skip_verify", "disabled"},
		{"xml parser", func(w *Workflow) { w.Parser.Kind = "xml" }, SeverityError, "parser.kind", "only csv"},
		{"long comma", func(w *Workflow) { w.Parser.Options["comma"] = ";;" }, SeverityError, "parser.options.comma", "single character"},
		{"unknown storage", func(w *Workflow) { w.Storage.Kind = "oracle" }, SeverityError, "storage.kind", "unknown storage kind"},
		{"pg without dsn", func(w *Workflow) { w.Storage.Kind = "postgres"; w.Storage.DB.Warehouse = "" }, SeverityError, "storage.db.dsn", "requires a dsn"},
		{"sqlite without warehouse", func(w *Workflow) { w.Storage.DB.Warehouse = "" }, SeverityError, "storage.db.warehouse", "warehouse"},
		{"bad namespace", func(w *Workflow) { w.Storage.DB.Namespace = "../etc" }, SeverityError, "storage.db.namespace", "not a valid identifier"},
		{"sqlite main", func(w *Workflow) { w.Storage.DB.Namespace = "main" }, SeverityError, "storage.db.namespace", "reserved sqlite schema"},
		{"sqlite temp", func(w *Workflow) { w.Storage.DB.Namespace = "TEMP" }, SeverityError, "storage.db.namespace", "reserved sqlite schema"},
		{"cache equals table", func(w *Workflow) { w.Storage.DB.CacheName = w.Storage.DB.Table }, SeverityError, "storage.db.cache_name", "must differ"},
		{"lowercase month", func(w *Workflow) { w.Queries.DatePattern = "yyyy-mm-dd" }, SeverityError, "queries.date_pattern", "month"},
		{"mssql style", func(w *Workflow) {
			w.Storage.Kind = "mssql"
			w.Storage.DB.DSN = "sqlserver://x"
			w.Storage.DB.Warehouse = ""
			w.Queries.DatePattern = "d.M.yyyy"
		}, SeverityError, "queries.date_pattern", "CONVERT style"},
		{"zero top n", func(w *Workflow) { w.Queries.TopN = 0 }, SeverityError, "queries.top_n", "positive"},
		{"no zipcodes", func(w *Workflow) { w.Queries.Zipcodes = nil }, SeverityError, "queries.zipcodes", "at least one"},
		{"blank only", func(w *Workflow) { w.Queries.Only = []string{"delay_stats", ""} }, SeverityError, "queries.only[1]", "must not be empty"},
		{"zero batch", func(w *Workflow) { w.Runtime.BatchSize = 0 }, SeverityError, "runtime.batch_size", "positive"},
		{"many workers", func(w *Workflow) { w.Runtime.QueryWorkers = 32 }, SeverityWarning, "runtime.query_workers", "exceeds"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := validWorkflow()
			tt.mutate(&w)
			issues := ValidateWorkflow(w)
			if !hasIssue(t, issues, tt.sev, tt.path, tt.msg) {
				t.Fatalf("want %s at %s containing %q; got %+v", tt.sev, tt.path, tt.msg, issues)
			}
			if tt.sev == SeverityError && !HasErrors(issues) {
				t.Fatalf("HasErrors() = false")
			}
		})
	}
}

func TestValidateWorkflow_MainNamespaceOutsideSqlite(t *testing.T) {
	t.Parallel()

	w := validWorkflow()
	w.Storage.Kind = "postgres"
	w.Storage.DB.DSN = "postgres://x/db"
	w.Storage.DB.Warehouse = ""
	w.Storage.DB.Namespace = "main"
	if issues := ValidateWorkflow(w); len(issues) != 0 {
		t.Fatalf("expected no issues; got %+v", issues)
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "job", Message: "job must not be empty"}
	if got, want := iss.Error(), "error at job: job must not be empty"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
