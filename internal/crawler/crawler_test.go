package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsptools/bspindex/pkg/types"
)

// writeFixture creates a file (and its parent directories) under root.
func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func scanPaths(t *testing.T, root string, extraExcludes []string) map[string]types.FileFormat {
	t.Helper()
	files, err := New(root, extraExcludes).Scan()
	require.NoError(t, err)
	found := make(map[string]types.FileFormat, len(files))
	for _, f := range files {
		found[f.RelPath] = f.Format
	}
	return found
}

func TestScanClassifiesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "meta-board/recipes-core/busybox/busybox_1.36.bb", "LICENSE = \"GPL-2.0\"\n")
	writeFixture(t, root, "meta-board/recipes-core/busybox/busybox_%.bbappend", "")
	writeFixture(t, root, "meta-board/recipes-core/busybox/busybox.inc", "")
	writeFixture(t, root, "meta-board/conf/machine/board.conf", "")
	writeFixture(t, root, "include/board.h", "#define BOARD 1\n")
	writeFixture(t, root, "dts/board.dts", "")
	writeFixture(t, root, "dts/board-common.dtsi", "")

	found := scanPaths(t, root, nil)

	assert.Equal(t, types.FormatRecipe, found["meta-board/recipes-core/busybox/busybox_1.36.bb"])
	assert.Equal(t, types.FormatRecipe, found["meta-board/recipes-core/busybox/busybox_%.bbappend"])
	assert.Equal(t, types.FormatRecipe, found["meta-board/recipes-core/busybox/busybox.inc"])
	assert.Equal(t, types.FormatConfig, found["meta-board/conf/machine/board.conf"])
	assert.Equal(t, types.FormatHeader, found["include/board.h"])
	assert.Equal(t, types.FormatTreeSource, found["dts/board.dts"])
	assert.Equal(t, types.FormatTreeSource, found["dts/board-common.dtsi"])
	assert.Len(t, found, 7)
}

func TestScanSkipsUnknownExtensions(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "README.md", "")
	writeFixture(t, root, "script.py", "")
	writeFixture(t, root, "recipe.bb", "")

	found := scanPaths(t, root, nil)

	assert.Len(t, found, 1)
	assert.Contains(t, found, "recipe.bb")
}

func TestScanPrunesDefaultExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "meta/recipe.bb", "")
	writeFixture(t, root, "tmp/work/copy/recipe.bb", "")
	writeFixture(t, root, "build/tmp/work/copy/recipe.bb", "")
	writeFixture(t, root, ".git/hooks/sample.conf", "")
	writeFixture(t, root, "sstate-cache/00/cached.conf", "")
	writeFixture(t, root, "downloads/pkg/fetched.inc", "")

	found := scanPaths(t, root, nil)

	assert.Len(t, found, 1)
	assert.Contains(t, found, "meta/recipe.bb")
}

func TestScanAppliesExtraExcludes(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "meta-a/recipe.bb", "")
	writeFixture(t, root, "meta-vendor/recipe.bb", "")

	found := scanPaths(t, root, []string{"meta-vendor/"})

	assert.Len(t, found, 1)
	assert.Contains(t, found, "meta-a/recipe.bb")
}

func TestScanReturnsAbsoluteAndRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "conf/local.conf", "")

	files, err := New(root, nil).Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.True(t, filepath.IsAbs(files[0].Path))
	assert.Equal(t, "conf/local.conf", files[0].RelPath)
	assert.Equal(t, "local.conf", files[0].Name)
}
