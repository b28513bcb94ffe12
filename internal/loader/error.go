package loader

import "fmt"

// Kind classifies an ingestion failure.
type Kind string

const (
	KindIO     Kind = "io"     // the source could not be opened or read
	KindParse  Kind = "parse"  // the file is not valid delimited text
	KindSchema Kind = "schema" // header or types do not fit the declared table
	KindInsert Kind = "insert" // the backend rejected the load
)

// Error is returned by Read and Insert. Any Error aborts the run; Insert
// leaves the table as it was before the call.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
