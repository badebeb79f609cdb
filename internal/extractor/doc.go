// Package extractor implements per-format fact extraction for BSP source
// files. Extraction is pattern matching over lines, not full parsing: the
// goal is a searchable fact index, not a syntax tree.
//
// Three extractors cover the four format families:
//
//   - recipe/config: BitBake variable assignments, require/include
//     directives, and inherit class references
//   - tree-source: device tree nodes, properties, labels, label references,
//     and preprocessor includes, with nested scope tracking
//   - header: preprocessor defines and includes
//
// Extractors are pure with respect to shared state; each call operates on
// its own content and result bundle, so files can be extracted in parallel
// without coordination.
package extractor
