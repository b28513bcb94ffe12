// Package sqlite implements the SQLite storage backend on modernc.org/sqlite.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN opens the main database, which only hosts TEMP objects such as the
	// query cache. Defaults to an in-memory database.
	DSN string

	// Warehouse is the directory holding one sub-directory per namespace:
	//   <warehouse>/<ns>.db/<ns>.sqlite
	// Each namespace file is ATTACHed under the namespace name.
	Warehouse string
}
