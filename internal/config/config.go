// Package config defines the workflow configuration: where the call-response
// file comes from, how it is parsed, which backend receives it and how the
// ten queries are parameterized.
//
// A workflow is decoded from JSON or YAML (chosen by file extension), filled
// with defaults by WithDefaults and checked by ValidateWorkflow.
//
// Example (trimmed):
//
//	{
//	  "job":     "firecalls",
//	  "source":  { "kind": "file", "file": { "path": "data/sf-fire-calls.csv" } },
//	  "parser":  { "kind": "csv", "options": { "has_header": true } },
//	  "storage": { "kind": "sqlite", "db": { "warehouse": "warehouse", "cache": true } },
//	  "queries": { "date_pattern": "yyyy-MM-dd", "year": 2018 },
//	  "runtime": { "batch_size": 5000, "query_workers": 4 }
//	}
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Workflow is the top-level object decoded from a workflow file.
type Workflow struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Source  Source        `json:"source" yaml:"source"`
	Parser  Parser        `json:"parser" yaml:"parser"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Queries Queries       `json:"queries" yaml:"queries"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// Source identifies the input file. Kinds: "file", "http".
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL                string `json:"url" yaml:"url"`
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	Retries            int    `json:"retries" yaml:"retries"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Parser selects how the raw file becomes a relation. The only kind is "csv".
type Parser struct {
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the parser. For CSV:
	//   has_header (bool), comma (string), trim_space (bool), lazy_quotes (bool)
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the backend and names the objects the workflow owns.
type Storage struct {
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the target namespace and table.
type DBConfig struct {
	// DSN is the backend connection string. For sqlite it names the main
	// database and defaults to an in-memory one.
	DSN string `json:"dsn" yaml:"dsn"`

	Namespace string `json:"namespace" yaml:"namespace"`
	Table     string `json:"table" yaml:"table"`

	// Warehouse is the directory holding per-namespace files (sqlite only).
	Warehouse string `json:"warehouse" yaml:"warehouse"`

	// Cache makes queries read from a lazily created full-table copy named
	// CacheName instead of the table itself.
	Cache     bool   `json:"cache" yaml:"cache"`
	CacheName string `json:"cache_name" yaml:"cache_name"`
}

// Queries parameterizes the query registry.
type Queries struct {
	// DatePattern is the Java-style pattern CallDate is parsed with.
	DatePattern string `json:"date_pattern" yaml:"date_pattern"`

	// Year filters the week and neighborhood queries.
	Year int `json:"year" yaml:"year"`

	// DelayThreshold is the strict lower bound of the long-delay query. Nil
	// means unset; an explicit 0 is kept.
	DelayThreshold *float64 `json:"delay_threshold" yaml:"delay_threshold"`

	// Zipcodes drive the neighborhood lookup.
	Zipcodes []int64 `json:"zipcodes" yaml:"zipcodes"`

	// TopN limits the top call types query.
	TopN int `json:"top_n" yaml:"top_n"`

	// CorrectIntent switches the year count, busiest week and worst response
	// queries from their literal form to the intended one.
	CorrectIntent bool `json:"correct_intent" yaml:"correct_intent"`

	// Only restricts the run to these query names or 1-based positions.
	Only []string `json:"only" yaml:"only"`
}

// RuntimeConfig controls batching and query concurrency.
type RuntimeConfig struct {
	BatchSize    int `json:"batch_size" yaml:"batch_size"`
	QueryWorkers int `json:"query_workers" yaml:"query_workers"`
}

// Options fetches typed values from a free-form map, returning def when a key
// is absent or of an unexpected type. It accepts both JSON (float64 numbers)
// and YAML (int numbers) decodings.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the int value for key or def.
func (o Options) Int(key string, def int) int {
	switch n := o[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return def
}

// Rune returns the first rune of a string value for key, or def when the key
// is missing or empty. Escapes "\t" and "tab" mean a tab.
func (o Options) Rune(key string, def rune) rune {
	s, ok := o[key].(string)
	if !ok || s == "" {
		return def
	}
	if s == `\t` || s == "tab" {
		return '\t'
	}
	return []rune(s)[0]
}

// UnmarshalJSON decodes a missing or null object to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (o *Options) UnmarshalYAML(n *yaml.Node) error {
	var tmp map[string]any
	if err := n.Decode(&tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = Options(tmp)
	return nil
}
