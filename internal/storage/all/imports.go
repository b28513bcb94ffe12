// Package all wires all built-in storage backends into the storage factory.
//
// Importing it, usually as a blank import from a main package, runs the init
// function of each backend so that storage.New accepts the kinds
//
//   - "mssql"    (firecalls/internal/storage/mssql)
//   - "mysql"    (firecalls/internal/storage/mysql)
//   - "postgres" (firecalls/internal/storage/postgres)
//   - "sqlite"   (firecalls/internal/storage/sqlite)
//
// A binary that needs only a subset can import the backend packages directly.
package all

import (
	_ "firecalls/internal/storage/mssql"
	_ "firecalls/internal/storage/mysql"
	_ "firecalls/internal/storage/postgres"
	_ "firecalls/internal/storage/sqlite"
)
