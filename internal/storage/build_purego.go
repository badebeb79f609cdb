//go:build purego || !sqlite_fts5
// +build purego !sqlite_fts5

package storage

// This file is compiled by default, and always when building without CGO
// or with the purego tag. It uses a pure Go SQLite implementation.
//
// Build command:
//   go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - FTS5 full-text search bundled, no extra tags needed
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
