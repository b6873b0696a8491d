// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in internal/store and of the task runner's TaskStore.
//
// Stores operate on a store.DBTX, so the same type serves both a connection
// pool and a transaction obtained through WithTx. Driver errors are translated
// into store sentinels by MapError so callers never inspect pgconn codes.
// The schema lives in migrations/ and is embedded into the binary for goose.
package postgres
