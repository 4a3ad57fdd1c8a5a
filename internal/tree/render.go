package tree

import "strings"

const (
	// LineMarker starts every rendered line.
	LineMarker = "|"
	// IndentUnit is repeated once per depth level.
	IndentUnit = "---"
	// LineTerminator ends every rendered line, including the last.
	LineTerminator = "\n"
)

// Render returns the listing of tree in pre-order, one line per node.
// A nil tree renders as the empty string.
func Render(tree *Tree) string {
	if tree == nil || tree.root == nil {
		return ""
	}
	var builder strings.Builder
	Visit(tree.root, func(node Node) {
		writeLine(&builder, node.Depth(), node.Name())
	})
	return builder.String()
}

func writeLine(builder *strings.Builder, depth int, name string) {
	builder.WriteString(LineMarker)
	for level := 0; level < depth; level++ {
		builder.WriteString(IndentUnit)
	}
	builder.WriteString(name)
	builder.WriteString(LineTerminator)
}
