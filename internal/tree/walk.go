package tree

import (
	"path/filepath"
	"strings"
)

// WalkResult is the listing produced by Walk together with its counts.
type WalkResult struct {
	Text   string
	Counts Counts
}

// treeWalker renders lines straight into a buffer without materializing nodes.
type treeWalker struct {
	options Options
	buffer  strings.Builder
	counts  Counts
}

// Walk renders options.Path while walking it. The text is byte-identical to
// Render(Build(options.Path, options)) for the same file-system state.
func Walk(options Options) (WalkResult, error) {
	walker := &treeWalker{options: options}
	writeLine(&walker.buffer, 0, rootDisplayName(options.Path))
	if walkError := walker.walkDirectory(options.Path, 1); walkError != nil {
		return WalkResult{}, walkError
	}
	result := WalkResult{Text: walker.buffer.String()}
	if options.CountEntries {
		result.Counts = walker.counts
	}
	return result, nil
}

func (walker *treeWalker) walkDirectory(directoryPath string, depth int) error {
	directoryEntries, readError := readDirectoryEntries(directoryPath, walker.options.SortEntries)
	if readError != nil {
		return readError
	}

	for _, directoryEntry := range directoryEntries {
		if !walker.options.includes(directoryEntry) {
			continue
		}
		writeLine(&walker.buffer, depth, entryDisplayName(directoryEntry))
		if !directoryEntry.IsDir() {
			walker.counts.add(KindFile)
			continue
		}
		walker.counts.add(KindDirectory)
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		if walkError := walker.walkDirectory(childPath, depth+1); walkError != nil {
			return walkError
		}
	}
	return nil
}
