// Package types defines the shared fact types flowing through the indexing
// pipeline: crawled file descriptors, extracted symbols, include edges,
// device tree nodes and properties, and the per-file result bundle.
//
// These types are intentionally free of storage and parsing concerns so that
// extractors stay pure (content in, FileResult out) and the store writer can
// persist a batch of results without reaching back into the extractors.
package types
