// Package output converts built trees into the supported output formats.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temirov/treeify/internal/tree"
	"github.com/temirov/treeify/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	errorUnsupportedFormat = "unsupported output format '%s'"
	errorEncodeJSONFormat  = "encode tree as JSON: %w"
	errorEncodeYAMLFormat  = "encode tree as YAML: %w"
)

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatText, types.FormatJSON, types.FormatYAML:
		return true
	default:
		return false
	}
}

// Render converts builtTree into the requested format.
func Render(format string, builtTree *tree.Tree) (string, error) {
	switch format {
	case types.FormatText:
		return tree.Render(builtTree), nil
	case types.FormatJSON:
		return RenderJSON(builtTree)
	case types.FormatYAML:
		return RenderYAML(builtTree)
	default:
		return "", fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// RenderJSON marshals the tree document as indented JSON followed by a newline.
func RenderJSON(builtTree *tree.Tree) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(Document(builtTree), indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", fmt.Errorf(errorEncodeJSONFormat, jsonEncodeError)
	}
	return string(encoded) + "\n", nil
}

// RenderYAML marshals the tree document as YAML.
func RenderYAML(builtTree *tree.Tree) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if yamlEncodeError := encoder.Encode(Document(builtTree)); yamlEncodeError != nil {
		return "", fmt.Errorf(errorEncodeYAMLFormat, yamlEncodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", fmt.Errorf(errorEncodeYAMLFormat, closeError)
	}
	return buffer.String(), nil
}

// FormatSummaryLine formats an OutputSummary into the trailing summary line.
// It returns an empty string when there is nothing to report.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		return ""
	}
	var parts []string
	if summary.Counted {
		directoryLabel := "directories"
		if summary.Directories == 1 {
			directoryLabel = "directory"
		}
		fileLabel := "files"
		if summary.Files == 1 {
			fileLabel = "file"
		}
		parts = append(parts, fmt.Sprintf("%d %s", summary.Directories, directoryLabel), fmt.Sprintf("%d %s", summary.Files, fileLabel))
	}
	if summary.Tokens > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", summary.Tokens))
	}
	if len(parts) == 0 {
		return ""
	}
	modelSuffix := ""
	if summary.Model != "" && summary.Tokens > 0 {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return strings.Join(parts, ", ") + modelSuffix
}
