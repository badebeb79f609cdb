package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsptools/bspindex/pkg/types"
)

func writeTestFile(t *testing.T, name, content string) types.FileInfo {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var format types.FileFormat
	switch filepath.Ext(name) {
	case ".bb", ".bbappend", ".inc":
		format = types.FormatRecipe
	case ".conf":
		format = types.FormatConfig
	case ".h":
		format = types.FormatHeader
	case ".dts", ".dtsi":
		format = types.FormatTreeSource
	}
	return types.FileInfo{
		Path:    path,
		RelPath: name,
		Name:    name,
		Format:  format,
	}
}

func TestExtractFileRecipe(t *testing.T) {
	info := writeTestFile(t, "busybox_1.36.bb", `LICENSE = "GPL-2.0"
inherit autotools
`)

	result, err := ExtractFile(info)
	require.NoError(t, err)

	assert.Equal(t, "busybox_1.36.bb", result.Path)
	assert.Equal(t, types.FormatRecipe, result.Format)
	assert.Positive(t, result.Size)
	assert.Positive(t, result.ModTime)
	require.Len(t, result.Symbols, 1)
	require.Len(t, result.Includes, 1)
}

func TestExtractFileConfigUsesRecipeRules(t *testing.T) {
	info := writeTestFile(t, "local.conf", `MACHINE ?= "qemuarm64"`)

	result, err := ExtractFile(info)
	require.NoError(t, err)

	require.Len(t, result.Symbols, 1)
	assert.Equal(t, "MACHINE", result.Symbols[0].Name)
	assert.Equal(t, types.KindVariable, result.Symbols[0].Kind)
}

func TestExtractFileHeader(t *testing.T) {
	info := writeTestFile(t, "board.h", `#include <stdint.h>
#define BOARD_REV 3
`)

	result, err := ExtractFile(info)
	require.NoError(t, err)

	require.Len(t, result.Symbols, 1)
	assert.Equal(t, "BOARD_REV", result.Symbols[0].Name)
	assert.Equal(t, "3", result.Symbols[0].Value)
	assert.Equal(t, types.KindDefine, result.Symbols[0].Kind)
	require.Len(t, result.Includes, 1)
	assert.Equal(t, "stdint.h", result.Includes[0].ToPath)
}

func TestExtractFileTreeSource(t *testing.T) {
	info := writeTestFile(t, "board.dts", `uart0: uart@100 {
	status = "okay";
};
`)

	result, err := ExtractFile(info)
	require.NoError(t, err)

	require.Len(t, result.Nodes, 1)
	require.Len(t, result.Properties, 1)
}

func TestExtractFileMissing(t *testing.T) {
	info := types.FileInfo{
		Path:    filepath.Join(t.TempDir(), "gone.bb"),
		RelPath: "gone.bb",
		Name:    "gone.bb",
		Format:  types.FormatRecipe,
	}

	_, err := ExtractFile(info)
	assert.Error(t, err)
}

func TestExtractFileUnknownFormat(t *testing.T) {
	info := writeTestFile(t, "data.bb", "")
	info.Format = types.FileFormat("mystery")

	_, err := ExtractFile(info)
	assert.Error(t, err)
}

func TestExtractFileToleratesBinaryContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.h")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0xff, 0xfe, 0x00}, 0o644))

	result, err := ExtractFile(types.FileInfo{
		Path:    path,
		RelPath: "junk.h",
		Name:    "junk.h",
		Format:  types.FormatHeader,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Includes)
}
