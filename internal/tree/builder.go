package tree

import "path/filepath"

// treeBuilder carries options and running counts through one recursive walk.
type treeBuilder struct {
	options Options
	counts  Counts
}

// Build walks rootPath and returns the materialized tree. The first I/O error
// aborts the walk; no partial tree is returned.
func Build(rootPath string, options Options) (*Tree, error) {
	builder := &treeBuilder{options: options}
	rootNode := NewDirectoryNode(rootDisplayName(rootPath), 0)
	if buildError := builder.buildChildren(rootNode, rootPath); buildError != nil {
		return nil, buildError
	}
	builtTree := NewTree(rootNode)
	if options.CountEntries {
		builtTree.counts = builder.counts
	}
	return builtTree, nil
}

// buildChildren populates parent with the entries of directoryPath.
func (builder *treeBuilder) buildChildren(parent *DirectoryNode, directoryPath string) error {
	directoryEntries, readError := readDirectoryEntries(directoryPath, builder.options.SortEntries)
	if readError != nil {
		return readError
	}

	childDepth := parent.depth + 1
	for _, directoryEntry := range directoryEntries {
		if !builder.options.includes(directoryEntry) {
			continue
		}
		if directoryEntry.IsDir() {
			directoryNode := NewDirectoryNode(entryDisplayName(directoryEntry), childDepth)
			childPath := filepath.Join(directoryPath, directoryEntry.Name())
			if buildError := builder.buildChildren(directoryNode, childPath); buildError != nil {
				return buildError
			}
			parent.addChild(directoryNode)
			builder.counts.add(KindDirectory)
			continue
		}
		parent.addChild(NewFileNode(entryDisplayName(directoryEntry), childDepth))
		builder.counts.add(KindFile)
	}
	return nil
}
