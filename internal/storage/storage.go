package storage

import (
	"context"
)

// Store defines the interface for persisting and querying one index
// snapshot. Write operations are available both on the store itself and
// inside a transaction; the indexer commits one transaction per batch.
type Store interface {
	// Write operations
	InsertFile(ctx context.Context, file *File) error
	InsertSymbol(ctx context.Context, symbol *Symbol) error
	InsertInclude(ctx context.Context, include *Include) error
	InsertNode(ctx context.Context, node *Node) error
	InsertProperty(ctx context.Context, property *Property) error
	SetMetadata(ctx context.Context, key, value string) error

	// Query operations
	GetFile(ctx context.Context, path string) (*File, error)
	ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error)
	ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error)
	ListNodesByFile(ctx context.Context, fileID int64) ([]*Node, error)
	ListPropertiesByNode(ctx context.Context, nodeID int64) ([]*Property, error)
	SearchSymbols(ctx context.Context, query string, limit int) ([]*SymbolMatch, error)
	GetNodesByPath(ctx context.Context, path string) ([]*Node, error)
	GetMetadata(ctx context.Context, key string) (string, error)
	Stats(ctx context.Context) (*Stats, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction.
type Tx interface {
	Commit() error
	Rollback() error
	Store // Embed Store interface for transaction operations
}

// File represents one indexed source file. Path is relative to the project
// root and unique within the snapshot.
type File struct {
	ID      int64
	Path    string
	Name    string
	Format  string
	Size    int64
	ModTime int64 // Unix seconds
}

// Symbol represents an extracted named fact.
type Symbol struct {
	ID     int64
	FileID int64
	Name   string
	Value  string
	Kind   string
	Line   int
}

// SymbolMatch is a full-text search hit: the symbol plus the path of the
// file it came from.
type SymbolMatch struct {
	Symbol
	FilePath string
}

// Include represents a directed reference from a file to a path as written
// in source. The target is not resolved to a file record.
type Include struct {
	ID         int64
	FromFileID int64
	ToPath     string
	Kind       string
	Line       int
}

// Node represents a device tree node. ParentID is nil for root-level and
// override nodes.
type Node struct {
	ID        int64
	FileID    int64
	Path      string
	Name      string
	Label     string // empty when absent
	Address   string // empty when absent
	ParentID  *int64 // nullable
	StartLine int
	EndLine   int
}

// Property represents a device tree property owned by one node.
type Property struct {
	ID     int64
	NodeID int64
	Name   string
	Value  string
	Line   int
}

// Stats contains aggregate counts over a snapshot.
type Stats struct {
	Files      int
	Symbols    int
	Includes   int
	Nodes      int
	Properties int
}
