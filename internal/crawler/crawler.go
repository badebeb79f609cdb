// Package crawler walks a BSP project tree and produces the list of
// candidate files to index, classified by format and filtered by
// exclusion patterns.
package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/bsptools/bspindex/pkg/types"
)

// fileFormats maps file extensions to format classifications.
var fileFormats = map[string]types.FileFormat{
	".bb":       types.FormatRecipe,
	".bbappend": types.FormatRecipe,
	".inc":      types.FormatRecipe,
	".conf":     types.FormatConfig,
	".h":        types.FormatHeader,
	".dts":      types.FormatTreeSource,
	".dtsi":     types.FormatTreeSource,
}

// DefaultExcludePatterns prunes build output, version control, and cache
// directories. Generated copies under tmp/work must not be indexed.
var DefaultExcludePatterns = []string{
	"tmp/work/",
	"**/tmp/work/",
	".git/",
	"sstate-cache/",
	"downloads/",
}

// Crawler discovers indexable files under a project root.
type Crawler struct {
	root    string
	matcher *ignore.GitIgnore
}

// New creates a Crawler for root. Extra exclusion patterns are appended to
// the defaults; patterns use gitignore syntax.
func New(root string, extraExcludes []string) *Crawler {
	patterns := append([]string{}, DefaultExcludePatterns...)
	patterns = append(patterns, extraExcludes...)
	return &Crawler{
		root:    root,
		matcher: ignore.CompileIgnoreLines(patterns...),
	}
}

// Scan walks the project tree and returns every regular file whose
// extension maps to a known format. Excluded directory subtrees are pruned
// entirely. Unreadable directories and non-regular files are skipped;
// traversal order is not guaranteed stable across runs.
func (c *Crawler) Scan() ([]types.FileInfo, error) {
	var files []types.FileInfo

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: skip it, not the run.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(c.root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if c.matcher.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if c.matcher.MatchesPath(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		format, ok := fileFormats[ext]
		if !ok {
			return nil
		}

		files = append(files, types.FileInfo{
			Path:    path,
			RelPath: rel,
			Name:    d.Name(),
			Format:  format,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
