// Package utils contains general helper functions used across the sitetree tool.
package utils

import "strings"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeFolderNames trims and lowercases names, dropping blanks and duplicates.
func NormalizeFolderNames(folderNames []string) []string {
	normalizedNames := make([]string, 0, len(folderNames))
	for _, folderName := range folderNames {
		trimmedName := strings.ToLower(strings.TrimSpace(folderName))
		if trimmedName == EmptyString {
			continue
		}
		normalizedNames = append(normalizedNames, trimmedName)
	}
	return DeduplicatePatterns(normalizedNames)
}
