// Package storage provides SQLite-backed persistence for index snapshots.
//
// A snapshot holds everything extracted from one project tree: files,
// symbols, include edges, device-tree nodes and properties, plus a small
// metadata table and an FTS5 full-text index over symbols. Create destroys
// any prior snapshot at the target path (including -wal and -shm sidecars)
// before opening a fresh database; Open attaches to an existing snapshot
// and applies pending schema migrations.
//
// Writers group work into transactions so each batch lands atomically:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil { ... }
//	defer tx.Rollback()
//	if err := tx.InsertFile(ctx, file); err != nil { ... }
//	if err := tx.Commit(); err != nil { ... }
//
// The symbols_fts table is kept in sync with symbols by triggers, so rows
// inserted through a transaction become searchable as soon as it commits.
//
// Two builds are supported: the default build uses the pure Go
// modernc.org/sqlite driver, and an opt-in cgo build
// (CGO_ENABLED=1 -tags sqlite_fts5) uses mattn/go-sqlite3.
package storage
