// Package types defines every cross‑package data structure used by the sitetree CLI.
package types

import "encoding/xml"

const (
	NodeTypeFolder = "folder"
	NodeTypeFile   = "file"

	CommandTree  = "tree"
	CommandStats = "stats"
	CommandServe = "serve"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatHTML = "html"

	// RootNodeName is the display name of the synthetic root node.
	RootNodeName = "root"
)

// TreeNode represents one folder or document of the site tree.
// Slug is the full path key; Level is the depth from the synthetic root.
type TreeNode struct {
	XMLName  xml.Name    `json:"-" xml:"node"`
	Name     string      `json:"name" xml:"name"`
	Slug     string      `json:"slug" xml:"slug"`
	IsFolder bool        `json:"isFolder" xml:"isFolder"`
	Level    int         `json:"level" xml:"level"`
	Children []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// Kind returns NodeTypeFolder or NodeTypeFile.
func (node *TreeNode) Kind() string {
	if node.IsFolder {
		return NodeTypeFolder
	}
	return NodeTypeFile
}

// TreeStats captures aggregate folder and file counts of a tree.
// Folders includes the synthetic root.
type TreeStats struct {
	Folders int `json:"folders" xml:"folders"`
	Files   int `json:"files" xml:"files"`
}

// DisplayFolders returns the folder count without the synthetic root.
func (stats TreeStats) DisplayFolders() int {
	if stats.Folders == 0 {
		return 0
	}
	return stats.Folders - 1
}

// StatsLabels holds the localized nouns appended to folder and file counts.
type StatsLabels struct {
	Folders string `json:"folders" xml:"folders"`
	Files   string `json:"files" xml:"files"`
}
