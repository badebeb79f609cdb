package extractor

import (
	"regexp"
	"strings"

	"github.com/bsptools/bspindex/pkg/types"
)

var (
	// Variable assignment: VAR = "value", also ?=, +=, :=, .= spellings.
	assignRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*)\s*(\??\+?=|:=|\.=)\s*["']?([^"']*)`)

	// require path or include path, optionally quoted.
	directiveRe = regexp.MustCompile(`^(require|include)\s+["']?([^"'\s]+)`)

	// inherit class1 class2 ...
	inheritRe = regexp.MustCompile(`^inherit\s+(.+)`)
)

// extractRecipe scans a BitBake recipe or configuration file line by line.
// Each line yields at most one fact; matching is exclusive in priority
// order: assignment, require/include, inherit.
func extractRecipe(content string, result *types.FileResult) {
	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if m := assignRe.FindStringSubmatch(stripped); m != nil {
			result.Symbols = append(result.Symbols, types.Symbol{
				Name:  m[1],
				Value: types.TruncateValue(m[3], types.MaxSymbolValueLen),
				Kind:  types.KindVariable,
				Line:  lineNum,
			})
			continue
		}

		if m := directiveRe.FindStringSubmatch(stripped); m != nil {
			kind := types.IncludeInclude
			if m[1] == "require" {
				kind = types.IncludeRequire
			}
			result.Includes = append(result.Includes, types.IncludeEdge{
				ToPath: m[2],
				Kind:   kind,
				Line:   lineNum,
			})
			continue
		}

		if m := inheritRe.FindStringSubmatch(stripped); m != nil {
			// inherit names classes, not paths; synthesize the class file
			// path each name resolves to so the edge set forms a class
			// dependency graph.
			for _, class := range strings.Fields(m[1]) {
				result.Includes = append(result.Includes, types.IncludeEdge{
					ToPath: "classes/" + class + ".bbclass",
					Kind:   types.IncludeInherit,
					Line:   lineNum,
				})
			}
		}
	}
}
