// Package adapters provide database adapter implementations for the library sql engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the engine to work with any supported
// connection type, PostgreSQL or SQLite.
//
// Every library operation runs inside one DBTx obtained from DBAdapter.BeginTx.
package adapters
