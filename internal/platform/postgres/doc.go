// Package postgres implements the store interfaces over database/sql.
// The SQL is kept portable across the two supported drivers, pgx for
// PostgreSQL deployments and modernc sqlite for single-node setups and
// tests, so one implementation serves both.
package postgres
