package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// HiddenMarker is the leading character of hidden entry names.
	HiddenMarker = "."
	// DirectorySuffix is appended to every directory display name.
	DirectorySuffix = "/"

	currentDirectoryName = "."
	parentDirectoryName  = ".."
)

// Options configures a walk.
type Options struct {
	// Path is the root directory to walk. It is used by Run and Walk.
	Path string
	// IncludeHidden keeps entries whose name starts with HiddenMarker.
	IncludeHidden bool
	// CountEntries records directory and file counts during the walk.
	CountEntries bool
	// SortEntries orders each directory's entries by name. When false the
	// order returned by the file system is kept.
	SortEntries bool
	// DirectoriesOnly skips every non-directory entry.
	DirectoriesOnly bool
}

// includes reports whether the entry takes part in the walk.
func (options Options) includes(directoryEntry fs.DirEntry) bool {
	if !options.IncludeHidden && strings.HasPrefix(directoryEntry.Name(), HiddenMarker) {
		return false
	}
	if options.DirectoriesOnly && !directoryEntry.IsDir() {
		return false
	}
	return true
}

// rootDisplayName derives the root line name from the last path component.
// "." and ".." have no usable last component, so they are resolved to an
// absolute path first and show the real directory name instead of a bare "/".
// Paths ending at a file-system root yield an empty name.
func rootDisplayName(rootPath string) string {
	cleanPath := filepath.Clean(rootPath)
	baseName := filepath.Base(cleanPath)
	if baseName == currentDirectoryName || baseName == parentDirectoryName {
		if absolutePath, absolutePathError := filepath.Abs(cleanPath); absolutePathError == nil {
			baseName = filepath.Base(absolutePath)
		}
	}
	if baseName == string(filepath.Separator) || baseName == currentDirectoryName || baseName == parentDirectoryName {
		baseName = ""
	}
	return baseName + DirectorySuffix
}

// entryDisplayName returns the entry name with DirectorySuffix for directories.
func entryDisplayName(directoryEntry fs.DirEntry) string {
	if directoryEntry.IsDir() {
		return directoryEntry.Name() + DirectorySuffix
	}
	return directoryEntry.Name()
}

// readDirectoryEntries lists directoryPath and closes the handle before
// returning, so no descriptor stays open across recursion. The entry type
// comes from the listing itself and does not follow symbolic links.
func readDirectoryEntries(directoryPath string, sortEntries bool) ([]fs.DirEntry, error) {
	directoryHandle, openError := os.Open(directoryPath)
	if openError != nil {
		return nil, &IOError{Op: opOpenDirectory, Path: directoryPath, Err: openError}
	}
	directoryEntries, readError := directoryHandle.ReadDir(-1)
	closeError := directoryHandle.Close()
	if readError != nil {
		return nil, &IOError{Op: opReadDirectory, Path: directoryPath, Err: readError}
	}
	if closeError != nil {
		return nil, &IOError{Op: opCloseDirectory, Path: directoryPath, Err: closeError}
	}
	if sortEntries {
		sort.Slice(directoryEntries, func(leftIndex, rightIndex int) bool {
			return directoryEntries[leftIndex].Name() < directoryEntries[rightIndex].Name()
		})
	}
	return directoryEntries, nil
}
