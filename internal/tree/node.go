// Package tree builds in-memory directory trees and renders them as indented listings.
package tree

import "slices"

// Kind classifies a node as a directory or a file.
type Kind int

const (
	// KindDirectory marks a node that owns a children sequence.
	KindDirectory Kind = iota
	// KindFile marks any non-directory entry.
	KindFile
)

const (
	kindDirectoryName = "directory"
	kindFileName      = "file"
)

// String returns the lower-case kind name.
func (kind Kind) String() string {
	if kind == KindDirectory {
		return kindDirectoryName
	}
	return kindFileName
}

// Node is one file-system entry of a tree. It is implemented only by
// *DirectoryNode and *FileNode.
type Node interface {
	Name() string
	Kind() Kind
	Depth() int
	sealed()
}

// DirectoryNode is a directory entry. Its children are always present, possibly empty.
type DirectoryNode struct {
	name     string
	depth    int
	children []Node
}

// NewDirectoryNode returns a directory node owning the given children.
func NewDirectoryNode(name string, depth int, children ...Node) *DirectoryNode {
	ownedChildren := make([]Node, 0, len(children))
	ownedChildren = append(ownedChildren, children...)
	return &DirectoryNode{name: name, depth: depth, children: ownedChildren}
}

func (directoryNode *DirectoryNode) Name() string { return directoryNode.name }

func (directoryNode *DirectoryNode) Kind() Kind { return KindDirectory }

func (directoryNode *DirectoryNode) Depth() int { return directoryNode.depth }

// Children returns a copy of the ordered children sequence. The result is never nil.
func (directoryNode *DirectoryNode) Children() []Node {
	return slices.Clone(directoryNode.children)
}

func (directoryNode *DirectoryNode) addChild(child Node) {
	directoryNode.children = append(directoryNode.children, child)
}

func (*DirectoryNode) sealed() {}

// FileNode is any non-directory entry. It has no children.
type FileNode struct {
	name  string
	depth int
}

// NewFileNode returns a file node.
func NewFileNode(name string, depth int) *FileNode {
	return &FileNode{name: name, depth: depth}
}

func (fileNode *FileNode) Name() string { return fileNode.name }

func (fileNode *FileNode) Kind() Kind { return KindFile }

func (fileNode *FileNode) Depth() int { return fileNode.depth }

func (*FileNode) sealed() {}

// Counts holds aggregate entry counts of a walk. The root directory is never counted.
type Counts struct {
	Directories int
	Files       int
}

func (counts *Counts) add(kind Kind) {
	if kind == KindDirectory {
		counts.Directories++
		return
	}
	counts.Files++
}

// Tree is a root directory node at depth zero together with the counts
// recorded while it was built.
type Tree struct {
	root   *DirectoryNode
	counts Counts
}

// NewTree wraps an already constructed root node.
func NewTree(root *DirectoryNode) *Tree {
	return &Tree{root: root}
}

// Root returns the root directory node.
func (tree *Tree) Root() *DirectoryNode {
	return tree.root
}

// Counts returns the counts recorded by Build. They are zero unless
// Options.CountEntries was set.
func (tree *Tree) Counts() Counts {
	return tree.counts
}

// Visit calls visitor for node and each of its descendants in pre-order.
func Visit(node Node, visitor func(Node)) {
	if node == nil || visitor == nil {
		return
	}
	visitor(node)
	if directoryNode, isDirectory := node.(*DirectoryNode); isDirectory {
		for _, child := range directoryNode.children {
			Visit(child, visitor)
		}
	}
}

// CountNodes recomputes directory and file counts from a materialized tree.
func CountNodes(tree *Tree) Counts {
	var counts Counts
	if tree == nil || tree.root == nil {
		return counts
	}
	for _, child := range tree.root.children {
		Visit(child, func(node Node) {
			counts.add(node.Kind())
		})
	}
	return counts
}
