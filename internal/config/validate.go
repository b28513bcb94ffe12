package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"firecalls/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config, e.g. "storage.db.namespace".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// identRe restricts namespace, table and cache names to portable SQL
// identifiers that are also safe as file names.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateWorkflow performs static checks over w, which is expected to have
// gone through WithDefaults. It does not mutate w.
func ValidateWorkflow(w Workflow) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(w.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels logs and metrics")
	}

	switch w.Source.Kind {
	case "file":
		if strings.TrimSpace(w.Source.File.Path) == "" {
			add(SeverityError, "source.file.path", "file source requires a non-empty path")
		}
	case "http":
		u := w.Source.HTTP.URL
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			add(SeverityError, "source.http.url", "http source requires an http(s) url, got %q", u)
		}
		if w.Source.HTTP.Retries < 0 {
			add(SeverityError, "source.http.retries", "retries must not be negative")
		}
		if w.Source.HTTP.InsecureSkipVerify {
			add(SeverityWarning, "source.http.insecure_skip_verify", "TLS verification is disabled")
		}
	default:
		add(SeverityError, "source.kind", "unknown source kind %q; want file or http", w.Source.Kind)
	}

	if w.Parser.Kind != "csv" {
		add(SeverityError, "parser.kind", "unknown parser kind %q; only csv is supported", w.Parser.Kind)
	} else if c, ok := w.Parser.Options["comma"]; ok {
		s, isStr := c.(string)
		if !isStr || (utf8.RuneCountInString(s) != 1 && s != `\t` && s != "tab") {
			add(SeverityError, "parser.options.comma", "comma must be a single character, got %v", c)
		}
	}

	issues = append(issues, validateStorage(w.Storage)...)
	issues = append(issues, validateQueries(w.Queries, w.Storage.Kind)...)

	if w.Runtime.BatchSize <= 0 {
		add(SeverityError, "runtime.batch_size", "batch_size must be positive, got %d", w.Runtime.BatchSize)
	}
	if w.Runtime.QueryWorkers <= 0 {
		add(SeverityError, "runtime.query_workers", "query_workers must be positive, got %d", w.Runtime.QueryWorkers)
	} else if w.Runtime.QueryWorkers > 10 {
		add(SeverityWarning, "runtime.query_workers", "query_workers=%d exceeds the number of queries", w.Runtime.QueryWorkers)
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch s.Kind {
	case "sqlite":
		if strings.TrimSpace(s.DB.Warehouse) == "" {
			add(SeverityError, "storage.db.warehouse", "sqlite requires a warehouse directory")
		}
		// main and temp are built-in schemas that cannot be attached or detached.
		switch strings.ToLower(s.DB.Namespace) {
		case "main", "temp":
			add(SeverityError, "storage.db.namespace", "%q is a reserved sqlite schema name", s.DB.Namespace)
		}
	case "postgres", "mysql", "mssql":
		if strings.TrimSpace(s.DB.DSN) == "" {
			add(SeverityError, "storage.db.dsn", "%s requires a dsn", s.Kind)
		}
		if s.DB.Warehouse != "" {
			add(SeverityWarning, "storage.db.warehouse", "warehouse is only used by sqlite")
		}
	default:
		add(SeverityError, "storage.kind", "unknown storage kind %q", s.Kind)
	}

	for _, f := range []struct{ path, v string }{
		{"storage.db.namespace", s.DB.Namespace},
		{"storage.db.table", s.DB.Table},
		{"storage.db.cache_name", s.DB.CacheName},
	} {
		if !identRe.MatchString(f.v) {
			add(SeverityError, f.path, "%q is not a valid identifier (letters, digits, underscore; max 63)", f.v)
		}
	}
	if s.DB.CacheName == s.DB.Table {
		add(SeverityError, "storage.db.cache_name", "cache_name must differ from table")
	}
	return issues
}

func validateQueries(q Queries, kind string) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	p, err := storage.ParseDatePattern(q.DatePattern)
	if err != nil {
		add(SeverityError, "queries.date_pattern", "%v", err)
	} else if kind == "mssql" {
		if _, ok := p.MSSQLStyle(); !ok {
			add(SeverityError, "queries.date_pattern", "pattern %q has no SQL Server CONVERT style", q.DatePattern)
		}
	}
	if q.Year < 1 || q.Year > 9999 {
		add(SeverityError, "queries.year", "year %d out of range", q.Year)
	}
	if q.DelayThreshold == nil {
		add(SeverityError, "queries.delay_threshold", "delay_threshold is unset")
	} else if *q.DelayThreshold < 0 {
		add(SeverityWarning, "queries.delay_threshold", "negative threshold %g matches every non-null delay", *q.DelayThreshold)
	}
	if q.TopN <= 0 {
		add(SeverityError, "queries.top_n", "top_n must be positive, got %d", q.TopN)
	}
	if len(q.Zipcodes) == 0 {
		add(SeverityError, "queries.zipcodes", "at least one zip code is required")
	}
	for i, name := range q.Only {
		if strings.TrimSpace(name) == "" {
			add(SeverityError, fmt.Sprintf("queries.only[%d]", i), "query name must not be empty")
		}
	}
	return issues
}
