package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsptools/bspindex/pkg/types"
)

func extractTreeString(t *testing.T, content string) *types.FileResult {
	t.Helper()
	result := &types.FileResult{Format: types.FormatTreeSource}
	extractDeviceTree(content, result)
	return result
}

func TestExtractDeviceTreeNode(t *testing.T) {
	content := `foo: bar@100 {
	reg = <0x100>;
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 1)
	node := result.Nodes[0]
	assert.Equal(t, "/bar", node.Path)
	assert.Equal(t, "bar", node.Name)
	assert.Equal(t, "foo", node.Label)
	assert.Equal(t, "100", node.Address)
	assert.Equal(t, 1, node.StartLine)
	assert.Equal(t, 3, node.EndLine)

	require.Len(t, result.Properties, 1)
	prop := result.Properties[0]
	assert.Equal(t, "/bar", prop.NodePath)
	assert.Equal(t, "reg", prop.Name)
	assert.Equal(t, "<0x100>", prop.Value)
	assert.Equal(t, 2, prop.Line)

	// Labeled node also emits a label symbol carrying the computed path.
	require.Len(t, result.Symbols, 1)
	assert.Equal(t, "foo", result.Symbols[0].Name)
	assert.Equal(t, "/bar", result.Symbols[0].Value)
	assert.Equal(t, types.KindLabel, result.Symbols[0].Kind)
}

func TestExtractDeviceTreeNestedPaths(t *testing.T) {
	content := `soc {
	bus {
		uart@fe001000 {
			status = "okay";
		};
	};
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 3)
	assert.Equal(t, "/soc", result.Nodes[0].Path)
	assert.Equal(t, "/soc/bus", result.Nodes[1].Path)
	assert.Equal(t, "/soc/bus/uart", result.Nodes[2].Path)
	assert.Equal(t, "fe001000", result.Nodes[2].Address)

	require.Len(t, result.Properties, 1)
	assert.Equal(t, "/soc/bus/uart", result.Properties[0].NodePath)
}

func TestExtractDeviceTreeOverrideNode(t *testing.T) {
	content := `&uart0 {
	status = "okay";
	child {
		prop;
	};
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "&uart0", result.Nodes[0].Path)
	assert.Equal(t, "&uart0", result.Nodes[0].Name)
	assert.Empty(t, result.Nodes[0].Label)

	// Children of an override nest under the literal reference path.
	assert.Equal(t, "&uart0/child", result.Nodes[1].Path)

	require.Len(t, result.Properties, 2)
	assert.Equal(t, "&uart0", result.Properties[0].NodePath)
	assert.Equal(t, "&uart0/child", result.Properties[1].NodePath)
	// Boolean property has no value.
	assert.Equal(t, "prop", result.Properties[1].Name)
	assert.Empty(t, result.Properties[1].Value)
}

func TestExtractDeviceTreeEndLineBackfill(t *testing.T) {
	content := `outer {
	inner {
		x = <1>;
	};
	y = <2>;
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "/outer", result.Nodes[0].Path)
	assert.Equal(t, 1, result.Nodes[0].StartLine)
	assert.Equal(t, 6, result.Nodes[0].EndLine)
	assert.Equal(t, "/outer/inner", result.Nodes[1].Path)
	assert.Equal(t, 2, result.Nodes[1].StartLine)
	assert.Equal(t, 4, result.Nodes[1].EndLine)
}

func TestExtractDeviceTreeReopenedPathBackfill(t *testing.T) {
	// The same override path opened twice: each close must land on the most
	// recently opened instance, not the first.
	content := `&pinctrl {
	a;
};
&pinctrl {
	b;
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 2)
	assert.Equal(t, 1, result.Nodes[0].StartLine)
	assert.Equal(t, 3, result.Nodes[0].EndLine)
	assert.Equal(t, 4, result.Nodes[1].StartLine)
	assert.Equal(t, 6, result.Nodes[1].EndLine)
}

func TestExtractDeviceTreeUnbalancedClose(t *testing.T) {
	content := `};
node {
	x;
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "/node", result.Nodes[0].Path)
	assert.Equal(t, 2, result.Nodes[0].StartLine)
	assert.Equal(t, 4, result.Nodes[0].EndLine)
}

func TestExtractDeviceTreePropertyOutsideScope(t *testing.T) {
	// Property-shaped lines with no open node are not attributed to anything.
	result := extractTreeString(t, "orphan = <1>;\n")

	assert.Empty(t, result.Properties)
}

func TestExtractDeviceTreeLabelReferences(t *testing.T) {
	content := `node {
	clocks = <&clk_core 5>, <&clk_bus 2>;
};
`
	result := extractTreeString(t, content)

	require.Len(t, result.Symbols, 2)
	assert.Equal(t, "&clk_core", result.Symbols[0].Name)
	assert.Equal(t, "clk_core", result.Symbols[0].Value)
	assert.Equal(t, types.KindLabelRef, result.Symbols[0].Kind)
	assert.Equal(t, "&clk_bus", result.Symbols[1].Name)
	assert.Equal(t, 2, result.Symbols[1].Line)
}

func TestExtractDeviceTreeIncludes(t *testing.T) {
	content := `#include <dt-bindings/gpio/gpio.h>
#include "board-common.dtsi"
`
	result := extractTreeString(t, content)

	require.Len(t, result.Includes, 2)
	assert.Equal(t, "dt-bindings/gpio/gpio.h", result.Includes[0].ToPath)
	assert.Equal(t, types.IncludePreprocessor, result.Includes[0].Kind)
	assert.Equal(t, "board-common.dtsi", result.Includes[1].ToPath)
}

func TestExtractDeviceTreePropertyValueTruncation(t *testing.T) {
	value := "<"
	for len(value) < 600 {
		value += "0x0 "
	}
	value += ">"
	result := extractTreeString(t, "node {\n\tbig = "+value+";\n};\n")

	require.Len(t, result.Properties, 1)
	assert.Len(t, result.Properties[0].Value, types.MaxPropertyValueLen)
}
