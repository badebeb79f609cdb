package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bsptools/bspindex/internal/crawler"
	"github.com/bsptools/bspindex/internal/extractor"
	"github.com/bsptools/bspindex/internal/storage"
	"github.com/bsptools/bspindex/pkg/types"
)

// Indexer coordinates the indexing pipeline: crawl -> extract -> store
type Indexer struct {
	store  storage.Store
	logger *slog.Logger
}

// Config contains configuration for the indexer
type Config struct {
	Workers         int      // Number of concurrent extraction workers (default: 8)
	BatchSize       int      // Number of files per write transaction (default: 100)
	ExcludePatterns []string // Extra exclusion patterns appended to the defaults
	Version         string   // Indexer version recorded in snapshot metadata
}

const (
	defaultWorkers   = 8
	defaultBatchSize = 100
)

// Statistics contains counters aggregated over one indexing run
type Statistics struct {
	FilesFound   int
	FilesIndexed int
	FilesSkipped int
	Symbols      int
	Includes     int
	Nodes        int
	Properties   int
	Duration     time.Duration
}

// New creates a new Indexer instance
func New(store storage.Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{store: store, logger: logger}
}

// IndexProject crawls rootPath and indexes every candidate file into the
// store. Batches are written strictly sequentially, each in one
// transaction; extraction within a batch runs on a bounded worker pool.
// Per-file extraction failures are skips, never fatal; a failed batch
// commit aborts the run.
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	startTime := time.Now()
	stats := &Statistics{}

	files, err := crawler.New(rootPath, config.ExcludePatterns).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	stats.FilesFound = len(files)
	idx.logger.Info("scan complete", "root", rootPath, "files", len(files))

	processed := 0
	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]

		results, skipped, err := idx.extractBatch(ctx, batch, workers)
		if err != nil {
			return nil, err
		}
		stats.FilesSkipped += skipped

		if err := idx.writeBatch(ctx, results, stats); err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}

		processed += len(batch)
		idx.logger.Info("progress", "processed", processed, "total", len(files))
	}

	if err := idx.writeMetadata(ctx, rootPath, config.Version); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// extractBatch runs the extractors for one batch of files on a bounded
// worker pool. Workers share no mutable state: each reads its own file and
// fills its own slot in the results slice. A nil slot is a skipped file.
func (idx *Indexer) extractBatch(ctx context.Context, batch []types.FileInfo, workers int) ([]*types.FileResult, int, error) {
	results := make([]*types.FileResult, len(batch))
	var skipped int32

	semaphore := make(chan struct{}, workers)
	g, gctx := errgroup.WithContext(ctx)

	for i, info := range batch {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result, err := extractor.ExtractFile(info)
			if err != nil {
				atomic.AddInt32(&skipped, 1)
				idx.logger.Debug("skipping file", "path", info.RelPath, "error", err)
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return results, int(skipped), nil
}

// writeBatch persists one batch of extraction results in a single
// transaction. The transaction failing is run-fatal: a partial snapshot
// must not be presented as complete.
func (idx *Indexer) writeBatch(ctx context.Context, results []*types.FileResult, stats *Statistics) error {
	tx, err := idx.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, result := range results {
		if result == nil {
			continue
		}
		if err := writeFileResult(ctx, tx, result, stats); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// writeFileResult inserts one file's record and all of its derived facts.
func writeFileResult(ctx context.Context, tx storage.Tx, result *types.FileResult, stats *Statistics) error {
	file := &storage.File{
		Path:    result.Path,
		Name:    result.Name,
		Format:  string(result.Format),
		Size:    result.Size,
		ModTime: result.ModTime,
	}
	if err := tx.InsertFile(ctx, file); err != nil {
		return err
	}
	stats.FilesIndexed++

	for _, sym := range result.Symbols {
		record := &storage.Symbol{
			FileID: file.ID,
			Name:   sym.Name,
			Value:  sym.Value,
			Kind:   string(sym.Kind),
			Line:   sym.Line,
		}
		if err := tx.InsertSymbol(ctx, record); err != nil {
			return fmt.Errorf("failed to store symbol: %w", err)
		}
		stats.Symbols++
	}

	for _, inc := range result.Includes {
		record := &storage.Include{
			FromFileID: file.ID,
			ToPath:     inc.ToPath,
			Kind:       string(inc.Kind),
			Line:       inc.Line,
		}
		if err := tx.InsertInclude(ctx, record); err != nil {
			return fmt.Errorf("failed to store include: %w", err)
		}
		stats.Includes++
	}

	// Node paths are only unique within one file's tree, so the path->id
	// map is scoped to this result. Insertion follows emission order, which
	// guarantees a hierarchical node's parent is already in the map.
	nodeIDs := make(map[string]int64, len(result.Nodes))
	for _, node := range result.Nodes {
		record := &storage.Node{
			FileID:    file.ID,
			Path:      node.Path,
			Name:      node.Name,
			Label:     node.Label,
			Address:   node.Address,
			StartLine: node.StartLine,
			EndLine:   node.EndLine,
		}
		if parent := parentNodePath(node.Path); parent != "" {
			if parentID, ok := nodeIDs[parent]; ok {
				record.ParentID = &parentID
			}
		}
		if err := tx.InsertNode(ctx, record); err != nil {
			return fmt.Errorf("failed to store node: %w", err)
		}
		nodeIDs[node.Path] = record.ID
		stats.Nodes++
	}

	for _, prop := range result.Properties {
		nodeID, ok := nodeIDs[prop.NodePath]
		if !ok {
			// Owning node unknown: drop the property rather than fail the
			// batch. Extraction invariants make this unreachable for
			// well-formed trees.
			continue
		}
		record := &storage.Property{
			NodeID: nodeID,
			Name:   prop.Name,
			Value:  prop.Value,
			Line:   prop.Line,
		}
		if err := tx.InsertProperty(ctx, record); err != nil {
			return fmt.Errorf("failed to store property: %w", err)
		}
		stats.Properties++
	}

	return nil
}

// parentNodePath returns the hierarchical parent of a computed node path,
// or "" for root-level and override nodes.
func parentNodePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "" // override reference, extends a node declared elsewhere
	}
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// writeMetadata records the snapshot-level key/value pairs.
func (idx *Indexer) writeMetadata(ctx context.Context, rootPath, version string) error {
	if version == "" {
		version = "dev"
	}
	now := fmt.Sprintf("%d", time.Now().UnixMilli())
	for key, value := range map[string]string{
		"last_index_time": now,
		"project_path":    rootPath,
		"indexer_version": version,
	} {
		if err := idx.store.SetMetadata(ctx, key, value); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
	}
	return nil
}
