package extractor

import (
	"regexp"
	"strings"

	"github.com/bsptools/bspindex/pkg/types"
)

var (
	// #include <file.dtsi> or #include "file.dtsi"
	dtIncludeRe = regexp.MustCompile(`^#include\s*[<"]([^>"]+)[>"]`)

	// Node opening: label: name@address { — label and address both optional.
	dtNodeRe = regexp.MustCompile(`^(?:(\w+)\s*:\s*)?(\S+?)(?:@([0-9a-fA-F]+))?\s*\{`)

	// Property: name = value; or name;
	dtPropRe = regexp.MustCompile(`^([\w,#-]+)\s*(?:=\s*(.+?))?;$`)

	// &label references inside property values.
	dtLabelRefRe = regexp.MustCompile(`&(\w+)`)
)

// scope is one open node on the parse stack: the path that was current
// before the node opened, and the line the node opened on.
type scope struct {
	parentPath string
	line       int
}

// extractDeviceTree scans a device tree source file in a single pass,
// tracking nested node scopes with an explicit stack.
//
// Node paths are computed, not literal: opening "name {" under /soc yields
// /soc/name, while an override node "&label {" keeps the literal reference
// as its path so consumers can resolve it against label symbols. A node's
// end line is backfilled when its closing brace is found; the backfill
// targets the most recently opened node with the closing path, which keeps
// it correct when the same path reopens via an override later in the file.
func extractDeviceTree(content string, result *types.FileResult) {
	var stack []scope
	currentPath := ""

	for i, line := range strings.Split(content, "\n") {
		lineNum := i + 1
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if m := dtIncludeRe.FindStringSubmatch(stripped); m != nil {
			result.Includes = append(result.Includes, types.IncludeEdge{
				ToPath: m[1],
				Kind:   types.IncludePreprocessor,
				Line:   lineNum,
			})
			continue
		}

		if m := dtNodeRe.FindStringSubmatch(stripped); m != nil {
			label, name, address := m[1], m[2], m[3]

			var newPath string
			if strings.HasPrefix(name, "&") {
				// Override node: extends an existing node by reference
				// rather than by hierarchical position.
				newPath = name
			} else if currentPath != "" {
				newPath = currentPath + "/" + name
			} else {
				newPath = "/" + name
			}

			stack = append(stack, scope{parentPath: currentPath, line: lineNum})
			currentPath = newPath

			result.Nodes = append(result.Nodes, types.TreeNode{
				Path:      newPath,
				Name:      name,
				Label:     label,
				Address:   address,
				StartLine: lineNum,
				EndLine:   lineNum, // provisional until the close is seen
			})

			// The label symbol carries the computed path as its value so a
			// later &label lookup resolves to a concrete node path.
			if label != "" {
				result.Symbols = append(result.Symbols, types.Symbol{
					Name:  label,
					Value: newPath,
					Kind:  types.KindLabel,
					Line:  lineNum,
				})
			}
			continue
		}

		if stripped == "};" || stripped == "}" {
			// A close with no matching open is structurally malformed
			// input; ignore the line rather than fail the file.
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				for j := len(result.Nodes) - 1; j >= 0; j-- {
					if result.Nodes[j].Path == currentPath {
						result.Nodes[j].EndLine = lineNum
						break
					}
				}
				currentPath = top.parentPath
			}
			continue
		}

		if m := dtPropRe.FindStringSubmatch(stripped); m != nil && currentPath != "" {
			propValue := m[2]
			result.Properties = append(result.Properties, types.TreeProperty{
				NodePath: currentPath,
				Name:     m[1],
				Value:    types.TruncateValue(propValue, types.MaxPropertyValueLen),
				Line:     lineNum,
			})

			for _, ref := range dtLabelRefRe.FindAllStringSubmatch(propValue, -1) {
				result.Symbols = append(result.Symbols, types.Symbol{
					Name:  "&" + ref[1],
					Value: ref[1],
					Kind:  types.KindLabelRef,
					Line:  lineNum,
				})
			}
		}
	}
}
