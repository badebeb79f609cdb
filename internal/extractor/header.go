package extractor

import (
	"regexp"
	"strings"

	"github.com/bsptools/bspindex/pkg/types"
)

var (
	defineRe  = regexp.MustCompile(`^#define\s+([A-Za-z_][A-Za-z0-9_]*)\s*(.*)`)
	includeRe = regexp.MustCompile(`^#include\s*[<"]([^>"]+)[>"]`)
)

// extractHeader scans a C header for macro definitions and includes.
// No scope tracking is needed.
func extractHeader(content string, result *types.FileResult) {
	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if m := defineRe.FindStringSubmatch(stripped); m != nil {
			result.Symbols = append(result.Symbols, types.Symbol{
				Name:  m[1],
				Value: types.TruncateValue(m[2], types.MaxSymbolValueLen),
				Kind:  types.KindDefine,
				Line:  lineNum,
			})
			continue
		}

		if m := includeRe.FindStringSubmatch(stripped); m != nil {
			result.Includes = append(result.Includes, types.IncludeEdge{
				ToPath: m[1],
				Kind:   types.IncludePreprocessor,
				Line:   lineNum,
			})
		}
	}
}
