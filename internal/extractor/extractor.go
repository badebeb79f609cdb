package extractor

import (
	"fmt"
	"os"

	"github.com/bsptools/bspindex/pkg/types"
)

// ExtractFile reads one crawled file and dispatches to the extractor for its
// format classification. The returned FileResult is self-contained; a nil
// result with an error means the file should be skipped, never that the run
// should abort.
func ExtractFile(info types.FileInfo) (*types.FileResult, error) {
	stat, err := os.Stat(info.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", info.RelPath, err)
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", info.RelPath, err)
	}

	result := &types.FileResult{
		Path:    info.RelPath,
		Name:    info.Name,
		Format:  info.Format,
		Size:    stat.Size(),
		ModTime: stat.ModTime().Unix(),
	}

	// Invalid UTF-8 is tolerated: extraction is byte-pattern based and a
	// stray binary file simply yields no facts.
	switch info.Format {
	case types.FormatRecipe, types.FormatConfig:
		extractRecipe(string(content), result)
	case types.FormatTreeSource:
		extractDeviceTree(string(content), result)
	case types.FormatHeader:
		extractHeader(string(content), result)
	default:
		return nil, fmt.Errorf("unknown format %q for %s", info.Format, info.RelPath)
	}

	return result, nil
}
