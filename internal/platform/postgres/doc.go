// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package. It handles query
// execution and mapping between domain entities and database records;
// visibility scoping is applied inside the queries themselves so rows an
// actor may not read never leave the database.
package postgres
