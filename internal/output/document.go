package output

import (
	"github.com/temirov/treeify/internal/tree"
	"github.com/temirov/treeify/internal/types"
)

// NodeDocument is the serializable form of a tree node. Children is nil for
// files and points to a possibly empty slice for directories, so encoders emit
// "children: []" for empty directories and nothing for files.
type NodeDocument struct {
	Name     string          `json:"name" yaml:"name"`
	Type     string          `json:"type" yaml:"type"`
	Depth    int             `json:"depth" yaml:"depth"`
	Children *[]NodeDocument `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document converts a built tree into its serializable form.
func Document(builtTree *tree.Tree) NodeDocument {
	if builtTree == nil || builtTree.Root() == nil {
		return NodeDocument{}
	}
	return documentNode(builtTree.Root())
}

func documentNode(node tree.Node) NodeDocument {
	directoryNode, isDirectory := node.(*tree.DirectoryNode)
	if !isDirectory {
		return NodeDocument{Name: node.Name(), Type: types.NodeTypeFile, Depth: node.Depth()}
	}
	children := directoryNode.Children()
	childDocuments := make([]NodeDocument, 0, len(children))
	for _, child := range children {
		childDocuments = append(childDocuments, documentNode(child))
	}
	return NodeDocument{
		Name:     node.Name(),
		Type:     types.NodeTypeDirectory,
		Depth:    node.Depth(),
		Children: &childDocuments,
	}
}
