// Package database implements the persistence layer on PostgreSQL via pgx.
// A single Store owns the connection pool and implements every repository
// interface the forum core needs. Migrations run inline at startup.
package database
