// Package filetree turns flat content index slugs into a sorted folder/file tree.
package filetree

import (
	"strings"

	"github.com/temirov/sitetree/internal/utils"
)

const (
	// DefaultDocumentSuffix marks a slug segment as a renderable document.
	DefaultDocumentSuffix = ".md"
)

// DefaultExcludedFolders lists folder name fragments that hold site assets rather than documents.
var DefaultExcludedFolders = []string{
	"ekler",
	"görseller",
	"pdf",
	"pdfler",
	"images",
	"assets",
	"attachments",
	"files",
	"media",
	"resimler",
	"dosyalar",
}

// Classifier decides whether a segment is a document and whether a folder is excluded.
type Classifier struct {
	excludedFolders []string
	documentSuffix  string
}

// NewClassifier builds a Classifier. A nil excludedFolders selects DefaultExcludedFolders,
// an empty non-nil slice disables exclusion. An empty documentSuffix selects DefaultDocumentSuffix.
func NewClassifier(excludedFolders []string, documentSuffix string) Classifier {
	if excludedFolders == nil {
		excludedFolders = DefaultExcludedFolders
	}
	normalizedFolders := utils.NormalizeFolderNames(excludedFolders)
	if documentSuffix == "" {
		documentSuffix = DefaultDocumentSuffix
	}
	return Classifier{
		excludedFolders: normalizedFolders,
		documentSuffix:  documentSuffix,
	}
}

// IsExcludedFolder reports whether folderName contains any deny-list entry, ignoring case.
func (classifier Classifier) IsExcludedFolder(folderName string) bool {
	lowerName := strings.ToLower(folderName)
	for _, excludedFolder := range classifier.excludedFolders {
		if lowerName == excludedFolder || strings.Contains(lowerName, excludedFolder) {
			return true
		}
	}
	return false
}

// IsDocumentFile reports whether segment ends with the document suffix.
func (classifier Classifier) IsDocumentFile(segment string) bool {
	return strings.HasSuffix(segment, classifier.documentSuffix)
}

// DisplayName strips the document suffix from a file segment.
func (classifier Classifier) DisplayName(segment string) string {
	return strings.TrimSuffix(segment, classifier.documentSuffix)
}

// DocumentSuffix returns the configured document suffix.
func (classifier Classifier) DocumentSuffix() string {
	return classifier.documentSuffix
}

// ExcludedFolders returns a copy of the normalized deny-list.
func (classifier Classifier) ExcludedFolders() []string {
	return append([]string(nil), classifier.excludedFolders...)
}
