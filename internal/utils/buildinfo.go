// Package utils provides shared constants, logger construction and version retrieval.
package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// gitDescribeArguments are tried in order until one yields a version.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion returns the module version from the build info, falling
// back to git describe inside a checkout and to "unknown" otherwise.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, repositoryError := findRepositoryDirectory(".")
	if repositoryError != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		// #nosec G204
		describeCommand := exec.Command("git", arguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findRepositoryDirectory searches upward from startDirectory for the
// directory containing GitDirectoryName.
func findRepositoryDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("resolve %s: %w", startDirectory, absoluteError)
	}

	currentDirectory := absoluteStartDirectory
	for {
		fileInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf("%s not found in or above %s", GitDirectoryName, absoluteStartDirectory)
		}
		currentDirectory = parentDirectory
	}
}
