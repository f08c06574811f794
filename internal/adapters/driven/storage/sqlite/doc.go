// Package sqlite provides a SQLite-based implementation of the DocumentStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// documents.filename carries a UNIQUE constraint. A violation is reported as
// domain.ErrAlreadyExists and the transaction writes nothing. text_chunks rows
// are removed with their document through ON DELETE CASCADE.
//
// # Data Location
//
// By default, the database is stored at ~/.semdoc/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
