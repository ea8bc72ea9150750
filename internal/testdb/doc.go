// Package testdb provides utilities for database integration tests.
//
// Tests run against the PostgreSQL instance named by DATABASE_URL (or
// TASKTRACK_TEST_DB_URL) and are skipped when neither is set. The schema is
// applied with the same embedded goose migrations the server runs at
// startup, and each test body runs inside a transaction that is rolled back
// when it returns, so tests can share one database and run in parallel.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        userStore := postgres.NewPostgresUserStore(tx, nil)
//	        user := testdb.CreateTestUser(t, tx, "a@x.com")
//	        ...
//	    })
//	}
package testdb
