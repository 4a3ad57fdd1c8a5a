// Package types defines the cross‑package constants and data structures used by the treeify CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidatedPath is an input path that already passed the directory check.
type ValidatedPath struct {
	InputPath    string
	AbsolutePath string
}

// OutputSummary captures aggregate information about a rendered listing.
// Directories and Files are meaningful only when Counted is set.
type OutputSummary struct {
	Counted     bool
	Directories int
	Files       int
	Tokens      int
	Model       string
}
