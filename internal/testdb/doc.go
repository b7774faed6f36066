// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests using this package should carry the "integration" build tag and are
// skipped when DATABASE_URL is not set:
//
//	//go:build integration
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			// every change made through tx is rolled back afterwards
//		})
//	}
package testdb
