//go:build sqlite_fts5 && !purego
// +build sqlite_fts5,!purego

package storage

// This file is compiled when building with CGO and the sqlite_fts5 tag.
// It uses the C SQLite library with FTS5 compiled in.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_fts5" ./...
//
// The C implementation provides:
//   - Fastest query and write performance
//   - FTS5 full-text search support (requires the sqlite_fts5 tag;
//     without it mattn/go-sqlite3 omits the FTS5 module and the schema
//     migration fails)
//   - Recommended for large project trees
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
