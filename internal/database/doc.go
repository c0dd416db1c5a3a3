// Package database provides SQLite-based storage for seoaudit.
//
// This package implements the AuditDB, which stores:
//   - The latest page records of every audited site
//   - Audit reports for historical comparison
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
