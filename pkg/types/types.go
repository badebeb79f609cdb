package types

// FileFormat classifies an indexed file into one of the supported format
// families. The extractor dispatched for a file depends on its format.
type FileFormat string

const (
	FormatRecipe     FileFormat = "recipe"      // BitBake recipes: .bb, .bbappend, .inc
	FormatConfig     FileFormat = "config"      // BitBake configuration: .conf
	FormatHeader     FileFormat = "header"      // C headers: .h
	FormatTreeSource FileFormat = "tree-source" // Device tree sources: .dts, .dtsi
)

// SymbolKind represents the kind of extracted symbol fact.
type SymbolKind string

const (
	KindVariable SymbolKind = "variable"        // BitBake variable assignment
	KindLabel    SymbolKind = "label"           // Device tree node label
	KindLabelRef SymbolKind = "label-reference" // &label reference inside a property value
	KindDefine   SymbolKind = "define"          // C preprocessor macro definition
)

// IncludeKind represents the directive that produced an include edge.
type IncludeKind string

const (
	IncludeRequire      IncludeKind = "require"
	IncludeInclude      IncludeKind = "include"
	IncludeInherit      IncludeKind = "inherit"
	IncludePreprocessor IncludeKind = "preprocessor-include"
)

// Value truncation bounds. Values longer than these are stored truncated,
// never longer.
const (
	MaxSymbolValueLen   = 200
	MaxPropertyValueLen = 500
)

// FileInfo describes a crawled candidate file before extraction.
type FileInfo struct {
	Path    string // Absolute path on disk
	RelPath string // Relative to the project root; unique within a snapshot
	Name    string // Base name
	Format  FileFormat
}

// Symbol is a named fact extracted from a file: a BitBake variable, a device
// tree label or label reference, or a preprocessor define.
type Symbol struct {
	Name  string
	Value string
	Kind  SymbolKind
	Line  int // 1-based source line
}

// IncludeEdge is a directed reference from the originating file to another
// path as written in source. Target resolution is left to downstream
// consumers.
type IncludeEdge struct {
	ToPath string
	Kind   IncludeKind
	Line   int
}

// TreeNode is a node in a device tree. Path is the computed hierarchical
// path ("/soc/uart" for a "uart@fe001000" node under /soc; the address
// suffix is not part of the path), or the literal override token ("&uart0")
// for override nodes. EndLine is provisional until the matching close is
// seen.
type TreeNode struct {
	Path      string
	Name      string
	Label     string // empty when the node has no label
	Address   string // hex address suffix without the '@', empty when absent
	StartLine int
	EndLine   int
}

// TreeProperty is a name/value pair attributed to the node that was open
// when the property line was encountered.
type TreeProperty struct {
	NodePath string
	Name     string
	Value    string
	Line     int
}

// FileResult is the self-contained fact bundle produced by extracting one
// file. It carries everything the store writer needs to persist the file.
type FileResult struct {
	Path    string // Relative path, unique within the snapshot
	Name    string
	Format  FileFormat
	Size    int64
	ModTime int64 // Unix seconds

	Symbols    []Symbol
	Includes   []IncludeEdge
	Nodes      []TreeNode
	Properties []TreeProperty
}

// TruncateValue bounds a value string to max bytes.
func TruncateValue(v string, max int) string {
	if len(v) > max {
		return v[:max]
	}
	return v
}
