// Package csv reads a delimited file with a header row into a
// relation.Relation, inferring one type per column over every value in the
// file.
package csv

import "firecalls/internal/config"

// Options configures the reader. Start from DefaultOptions or FromConfig.
type Options struct {
	// HasHeader treats the first record as column names. Without a header
	// the columns are unnamed and callers bind them by position.
	HasHeader bool

	// Comma is the field delimiter.
	Comma rune

	// TrimSpace trims surrounding white space from every field.
	TrimSpace bool

	// LazyQuotes tolerates bare quotes inside unquoted fields.
	LazyQuotes bool
}

// DefaultOptions matches the call-response export: comma separated with a
// header, no trimming, strict quoting.
func DefaultOptions() Options {
	return Options{HasHeader: true, Comma: ','}
}

// FromConfig reads has_header, comma, trim_space and lazy_quotes from the
// parser options block of a workflow config.
func FromConfig(opt config.Options) Options {
	d := DefaultOptions()
	return Options{
		HasHeader:  opt.Bool("has_header", d.HasHeader),
		Comma:      opt.Rune("comma", d.Comma),
		TrimSpace:  opt.Bool("trim_space", d.TrimSpace),
		LazyQuotes: opt.Bool("lazy_quotes", d.LazyQuotes),
	}
}
