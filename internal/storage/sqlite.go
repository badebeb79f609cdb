package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better write throughput
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Create initializes a fresh snapshot store at dbPath, destroying any prior
// snapshot at the same location. Every run computes a full snapshot; a
// leftover database would otherwise mix stale and fresh facts.
func Create(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove prior snapshot %s: %w", p, err)
			}
		}
	}
	return Open(dbPath)
}

// Open opens an existing snapshot store (or creates an empty one) at dbPath
// and applies any pending schema migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the DB querier
func (s *SQLiteStore) querier() querier {
	return s.db
}

// Write operations

// insertFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	// Keyed by path: a re-crawled file replaces its prior record.
	query := `
		INSERT OR REPLACE INTO files (path, name, type, size, mtime)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	err := q.QueryRowContext(ctx, query,
		file.Path, file.Name, file.Format, file.Size, file.ModTime).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to insert file %s: %w", file.Path, err)
	}
	return nil
}

func (s *SQLiteStore) InsertFile(ctx context.Context, file *File) error {
	return s.insertFileWithQuerier(ctx, s.querier(), file)
}

// insertSymbolWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertSymbolWithQuerier(ctx context.Context, q querier, symbol *Symbol) error {
	query := `
		INSERT INTO symbols (name, value, type, file_id, line)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		symbol.Name, symbol.Value, symbol.Kind, symbol.FileID, symbol.Line)
	if err != nil {
		return fmt.Errorf("failed to insert symbol %s: %w", symbol.Name, err)
	}
	symbol.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) InsertSymbol(ctx context.Context, symbol *Symbol) error {
	return s.insertSymbolWithQuerier(ctx, s.querier(), symbol)
}

// insertIncludeWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertIncludeWithQuerier(ctx context.Context, q querier, include *Include) error {
	query := `
		INSERT INTO includes (from_file_id, to_path, type, line)
		VALUES (?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		include.FromFileID, include.ToPath, include.Kind, include.Line)
	if err != nil {
		return fmt.Errorf("failed to insert include %s: %w", include.ToPath, err)
	}
	include.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) InsertInclude(ctx context.Context, include *Include) error {
	return s.insertIncludeWithQuerier(ctx, s.querier(), include)
}

// insertNodeWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertNodeWithQuerier(ctx context.Context, q querier, node *Node) error {
	query := `
		INSERT INTO dt_nodes (file_id, path, name, label, address, parent_id, start_line, end_line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		node.FileID, node.Path, node.Name,
		nullableString(node.Label), nullableString(node.Address),
		node.ParentID, node.StartLine, node.EndLine)
	if err != nil {
		return fmt.Errorf("failed to insert node %s: %w", node.Path, err)
	}
	node.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) InsertNode(ctx context.Context, node *Node) error {
	return s.insertNodeWithQuerier(ctx, s.querier(), node)
}

// insertPropertyWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) insertPropertyWithQuerier(ctx context.Context, q querier, property *Property) error {
	query := `
		INSERT INTO dt_properties (node_id, name, value, line)
		VALUES (?, ?, ?, ?)
	`
	result, err := q.ExecContext(ctx, query,
		property.NodeID, property.Name, property.Value, property.Line)
	if err != nil {
		return fmt.Errorf("failed to insert property %s: %w", property.Name, err)
	}
	property.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) InsertProperty(ctx context.Context, property *Property) error {
	return s.insertPropertyWithQuerier(ctx, s.querier(), property)
}

// setMetadataWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) setMetadataWithQuerier(ctx context.Context, q querier, key, value string) error {
	query := `INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`
	_, err := q.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) SetMetadata(ctx context.Context, key, value string) error {
	return s.setMetadataWithQuerier(ctx, s.querier(), key, value)
}

// Query operations

// getFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) getFileWithQuerier(ctx context.Context, q querier, path string) (*File, error) {
	query := `
		SELECT id, path, name, type, size, mtime
		FROM files
		WHERE path = ?
	`
	var file File
	err := q.QueryRowContext(ctx, query, path).Scan(
		&file.ID, &file.Path, &file.Name, &file.Format, &file.Size, &file.ModTime,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *SQLiteStore) GetFile(ctx context.Context, path string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.querier(), path)
}

// listSymbolsByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) listSymbolsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Symbol, error) {
	query := `
		SELECT id, name, COALESCE(value, ''), type, file_id, line
		FROM symbols
		WHERE file_id = ?
		ORDER BY line
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	symbols := make([]*Symbol, 0)
	for rows.Next() {
		var symbol Symbol
		if err := rows.Scan(&symbol.ID, &symbol.Name, &symbol.Value,
			&symbol.Kind, &symbol.FileID, &symbol.Line); err != nil {
			return nil, err
		}
		symbols = append(symbols, &symbol)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStore) ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error) {
	return s.listSymbolsByFileWithQuerier(ctx, s.querier(), fileID)
}

// listIncludesByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) listIncludesByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Include, error) {
	query := `
		SELECT id, from_file_id, to_path, type, line
		FROM includes
		WHERE from_file_id = ?
		ORDER BY line
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	includes := make([]*Include, 0)
	for rows.Next() {
		var include Include
		if err := rows.Scan(&include.ID, &include.FromFileID, &include.ToPath,
			&include.Kind, &include.Line); err != nil {
			return nil, err
		}
		includes = append(includes, &include)
	}
	return includes, rows.Err()
}

func (s *SQLiteStore) ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error) {
	return s.listIncludesByFileWithQuerier(ctx, s.querier(), fileID)
}

// scanNodes reads node rows into Node structs
func scanNodes(rows *sql.Rows) ([]*Node, error) {
	nodes := make([]*Node, 0)
	for rows.Next() {
		var node Node
		var label, address sql.NullString
		var parentID sql.NullInt64
		if err := rows.Scan(&node.ID, &node.FileID, &node.Path, &node.Name,
			&label, &address, &parentID, &node.StartLine, &node.EndLine); err != nil {
			return nil, err
		}
		node.Label = label.String
		node.Address = address.String
		if parentID.Valid {
			id := parentID.Int64
			node.ParentID = &id
		}
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}

// listNodesByFileWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) listNodesByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Node, error) {
	query := `
		SELECT id, file_id, path, name, label, address, parent_id, start_line, end_line
		FROM dt_nodes
		WHERE file_id = ?
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanNodes(rows)
}

func (s *SQLiteStore) ListNodesByFile(ctx context.Context, fileID int64) ([]*Node, error) {
	return s.listNodesByFileWithQuerier(ctx, s.querier(), fileID)
}

// getNodesByPathWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) getNodesByPathWithQuerier(ctx context.Context, q querier, path string) ([]*Node, error) {
	// Paths are only unique within one file's tree, so a path may match
	// nodes from several files.
	query := `
		SELECT id, file_id, path, name, label, address, parent_id, start_line, end_line
		FROM dt_nodes
		WHERE path = ?
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanNodes(rows)
}

func (s *SQLiteStore) GetNodesByPath(ctx context.Context, path string) ([]*Node, error) {
	return s.getNodesByPathWithQuerier(ctx, s.querier(), path)
}

// listPropertiesByNodeWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) listPropertiesByNodeWithQuerier(ctx context.Context, q querier, nodeID int64) ([]*Property, error) {
	query := `
		SELECT id, node_id, name, COALESCE(value, ''), line
		FROM dt_properties
		WHERE node_id = ?
		ORDER BY line
	`
	rows, err := q.QueryContext(ctx, query, nodeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	properties := make([]*Property, 0)
	for rows.Next() {
		var property Property
		if err := rows.Scan(&property.ID, &property.NodeID, &property.Name,
			&property.Value, &property.Line); err != nil {
			return nil, err
		}
		properties = append(properties, &property)
	}
	return properties, rows.Err()
}

func (s *SQLiteStore) ListPropertiesByNode(ctx context.Context, nodeID int64) ([]*Property, error) {
	return s.listPropertiesByNodeWithQuerier(ctx, s.querier(), nodeID)
}

// searchSymbolsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) searchSymbolsWithQuerier(ctx context.Context, q querier, match string, limit int) ([]*SymbolMatch, error) {
	// In FTS5, 'rank' is a built-in virtual column representing BM25
	// relevance; lower values indicate better matches.
	query := `
		SELECT s.id, s.name, COALESCE(s.value, ''), s.type, s.file_id, s.line,
		       COALESCE(f.path, '')
		FROM symbols s
		JOIN symbols_fts fts ON s.id = fts.rowid
		LEFT JOIN files f ON s.file_id = f.id
		WHERE symbols_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, match, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]*SymbolMatch, 0)
	for rows.Next() {
		var m SymbolMatch
		if err := rows.Scan(&m.ID, &m.Name, &m.Value, &m.Kind,
			&m.FileID, &m.Line, &m.FilePath); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (s *SQLiteStore) SearchSymbols(ctx context.Context, query string, limit int) ([]*SymbolMatch, error) {
	return s.searchSymbolsWithQuerier(ctx, s.querier(), query, limit)
}

// getMetadataWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) getMetadataWithQuerier(ctx context.Context, q querier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	return s.getMetadataWithQuerier(ctx, s.querier(), key)
}

// statsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStore) statsWithQuerier(ctx context.Context, q querier) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM files),
			(SELECT COUNT(*) FROM symbols),
			(SELECT COUNT(*) FROM includes),
			(SELECT COUNT(*) FROM dt_nodes),
			(SELECT COUNT(*) FROM dt_properties)
	`
	var stats Stats
	err := q.QueryRowContext(ctx, query).Scan(
		&stats.Files, &stats.Symbols, &stats.Includes, &stats.Nodes, &stats.Properties,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	return s.statsWithQuerier(ctx, s.querier())
}

// nullableString converts an empty string to NULL for optional columns
func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// Transaction operations: delegate to the store implementations with the
// transaction as the querier.

func (t *sqliteTx) InsertFile(ctx context.Context, file *File) error {
	return t.store.insertFileWithQuerier(ctx, t.tx, file)
}

func (t *sqliteTx) InsertSymbol(ctx context.Context, symbol *Symbol) error {
	return t.store.insertSymbolWithQuerier(ctx, t.tx, symbol)
}

func (t *sqliteTx) InsertInclude(ctx context.Context, include *Include) error {
	return t.store.insertIncludeWithQuerier(ctx, t.tx, include)
}

func (t *sqliteTx) InsertNode(ctx context.Context, node *Node) error {
	return t.store.insertNodeWithQuerier(ctx, t.tx, node)
}

func (t *sqliteTx) InsertProperty(ctx context.Context, property *Property) error {
	return t.store.insertPropertyWithQuerier(ctx, t.tx, property)
}

func (t *sqliteTx) SetMetadata(ctx context.Context, key, value string) error {
	return t.store.setMetadataWithQuerier(ctx, t.tx, key, value)
}

func (t *sqliteTx) GetFile(ctx context.Context, path string) (*File, error) {
	return t.store.getFileWithQuerier(ctx, t.tx, path)
}

func (t *sqliteTx) ListSymbolsByFile(ctx context.Context, fileID int64) ([]*Symbol, error) {
	return t.store.listSymbolsByFileWithQuerier(ctx, t.tx, fileID)
}

func (t *sqliteTx) ListIncludesByFile(ctx context.Context, fileID int64) ([]*Include, error) {
	return t.store.listIncludesByFileWithQuerier(ctx, t.tx, fileID)
}

func (t *sqliteTx) ListNodesByFile(ctx context.Context, fileID int64) ([]*Node, error) {
	return t.store.listNodesByFileWithQuerier(ctx, t.tx, fileID)
}

func (t *sqliteTx) ListPropertiesByNode(ctx context.Context, nodeID int64) ([]*Property, error) {
	return t.store.listPropertiesByNodeWithQuerier(ctx, t.tx, nodeID)
}

func (t *sqliteTx) SearchSymbols(ctx context.Context, query string, limit int) ([]*SymbolMatch, error) {
	return t.store.searchSymbolsWithQuerier(ctx, t.tx, query, limit)
}

func (t *sqliteTx) GetNodesByPath(ctx context.Context, path string) ([]*Node, error) {
	return t.store.getNodesByPathWithQuerier(ctx, t.tx, path)
}

func (t *sqliteTx) GetMetadata(ctx context.Context, key string) (string, error) {
	return t.store.getMetadataWithQuerier(ctx, t.tx, key)
}

func (t *sqliteTx) Stats(ctx context.Context) (*Stats, error) {
	return t.store.statsWithQuerier(ctx, t.tx)
}

func (t *sqliteTx) Close() error {
	// Closing is a connection-level concern; a transaction never owns it.
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}
