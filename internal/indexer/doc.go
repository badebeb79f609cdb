// Package indexer coordinates the end-to-end indexing pipeline for BSP
// source trees.
//
// The indexer crawls the project, fans extraction out to a bounded worker
// pool, and persists results in fixed-size batches, one transaction per
// batch.
//
// # Basic Usage
//
//	idx := indexer.New(store, logger)
//
//	stats, err := idx.IndexProject(ctx, "/path/to/bsp", &indexer.Config{
//	    Workers:   8,
//	    BatchSize: 100,
//	})
//
//	fmt.Printf("Indexed %d files in %v\n", stats.FilesIndexed, stats.Duration)
//
// # Pipeline
//
//  1. Crawl: find candidate files, prune excluded subtrees
//  2. Extract: per-format fact extraction, parallel within a batch
//  3. Store: one write transaction per batch, committed sequentially
//  4. Metadata: record snapshot timestamp, root, and indexer version
//
// Batches are strictly sequential relative to each other, bounding peak
// memory to one batch of in-flight results. A per-file extraction failure
// only skips that file; a failed batch commit aborts the run, leaving the
// snapshot reflecting exactly the previously committed batches.
package indexer
