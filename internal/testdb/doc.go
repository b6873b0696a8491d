// Package testdb provides utilities for database integration tests.
//
// Tests that need a real PostgreSQL instance call GetTestDBWithT, which skips
// the test unless DATABASE_URL or RADAR_TEST_DB_URL is set. Under CI a missing
// database fails the test instead. The embedded migrations are applied once
// per process and the pool is closed on cleanup. WithTx then gives each test
// its own transaction that is always rolled back, so tests can run in
// parallel against one schema.
package testdb
