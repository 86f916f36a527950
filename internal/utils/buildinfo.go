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

// ApplicationVersion is set at link time with -ldflags "-X github.com/temirov/sitetree/internal/utils.ApplicationVersion=v1.2.3".
var ApplicationVersion string

// gitDescribeArguments are tried in order; the first non-empty answer wins.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the link-time version, then the module version, then git describe output.
func GetApplicationVersion() string {
	if ApplicationVersion != "" {
		return ApplicationVersion
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		moduleVersion := buildInfo.Main.Version
		if moduleVersion != "" && moduleVersion != developmentVersion {
			return moduleVersion
		}
	}
	repositoryDirectory, lookupError := findRepositoryRoot(".")
	if lookupError != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		if described := describeRepository(repositoryDirectory, arguments); described != "" {
			return described
		}
	}
	return unknownVersion
}

func describeRepository(repositoryDirectory string, arguments []string) string {
	// #nosec G204
	gitCommand := exec.Command("git", arguments...)
	gitCommand.Dir = repositoryDirectory
	commandOutput, commandError := gitCommand.Output()
	if commandError != nil {
		return ""
	}
	return strings.TrimSpace(string(commandOutput))
}

// findRepositoryRoot walks up from startDirectory to the first directory holding .git.
func findRepositoryRoot(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("resolve %s: %w", startDirectory, absoluteError)
	}
	for currentDirectory := absoluteStartDirectory; ; {
		if information, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && information.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf("%s not found in or above %s", GitDirectoryName, absoluteStartDirectory)
		}
		currentDirectory = parentDirectory
	}
}
