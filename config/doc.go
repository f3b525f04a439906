// Package config provides the database configuration for the library service.
//
// It reads the connection settings from the environment (a .env file is loaded by the CLI before)
// and opens connections for every supported combination of backend and adapter:
// PostgreSQL via pgx.Pool, sql.DB (lib/pq) or sqlx.DB, and SQLite via sql.DB or sqlx.DB (mattn/go-sqlite3).
// Pool settings are tuned per backend.
package config
