//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share a database and run in parallel without
// cleaning up after themselves:
//
//	func TestNoteStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        noteStore := postgres.NewPostgresNoteStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped when TASKFLOW_TEST_DATABASE_URL (or DATABASE_URL) is
// not set.
package testdb
