// Package config loads application configuration and exclusion files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/utils"
)

const commentPrefix = "#"

// LoadExclusionFile reads folder names, one per line, from exclusionFilePath.
// Blank lines and lines starting with # are skipped. A missing file yields no names.
//
// #nosec G304
func LoadExclusionFile(exclusionFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(exclusionFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", exclusionFilePath, closeError)
		}
	}()

	var folderNames []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		folderNames = append(folderNames, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return folderNames, nil
}

// ResolveExcludedFolders combines the exclusion sources in precedence order.
// Explicit folder names replace the configured list; names from the exclusion file are appended.
// A nil result means the built-in deny-list applies.
func ResolveExcludedFolders(treeConfiguration TreeConfiguration, explicitFolders []string) ([]string, error) {
	var combinedFolders []string
	switch {
	case len(explicitFolders) > 0:
		combinedFolders = append(combinedFolders, explicitFolders...)
	case len(treeConfiguration.ExcludedFolders) > 0:
		combinedFolders = append(combinedFolders, treeConfiguration.ExcludedFolders...)
	}

	if treeConfiguration.ExclusionFile != "" {
		fileFolders, loadError := LoadExclusionFile(treeConfiguration.ExclusionFile)
		if loadError != nil {
			return nil, fmt.Errorf("loading exclusion file %s: %w", treeConfiguration.ExclusionFile, loadError)
		}
		if len(fileFolders) > 0 && combinedFolders == nil {
			combinedFolders = append(combinedFolders, filetree.DefaultExcludedFolders...)
		}
		combinedFolders = append(combinedFolders, fileFolders...)
	}

	if combinedFolders == nil {
		return nil, nil
	}
	return utils.NormalizeFolderNames(combinedFolders), nil
}
