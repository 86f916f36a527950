// Package output renders site trees as html, raw text, json or xml.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	folderSuffix       = "/"
	statsLabelFormat   = "%s %s"
	summaryLineFormat  = "Summary: %s, %s"
	errorUnknownFormat = "%w: %q"
)

// ErrUnknownFormat is returned for a format other than raw, json, xml or html.
var ErrUnknownFormat = errors.New("unknown output format")

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatHTML:
		return true
	default:
		return false
	}
}

// FormatStatsLabels returns the display strings for the folder and file counters.
// The synthetic root is excluded from the folder count.
func FormatStatsLabels(stats types.TreeStats, labels types.StatsLabels) (string, string) {
	folderLabel := fmt.Sprintf(statsLabelFormat, humanize.Comma(int64(stats.DisplayFolders())), labels.Folders)
	fileLabel := fmt.Sprintf(statsLabelFormat, humanize.Comma(int64(stats.Files)), labels.Files)
	return folderLabel, fileLabel
}

// FormatSummaryLine formats stats into the raw summary line.
func FormatSummaryLine(stats types.TreeStats, labels types.StatsLabels) string {
	folderLabel, fileLabel := FormatStatsLabels(stats, labels)
	return fmt.Sprintf(summaryLineFormat, folderLabel, fileLabel)
}

// RenderTree renders result in the requested format.
func RenderTree(format string, result filetree.Result, labels types.StatsLabels) (string, error) {
	switch format {
	case types.FormatHTML:
		return RenderTreeView(result.Root), nil
	case types.FormatRaw:
		var buffer bytes.Buffer
		WriteTreeRaw(&buffer, result.Root)
		buffer.WriteString(FormatSummaryLine(result.Stats, labels) + "\n")
		return buffer.String(), nil
	case types.FormatJSON:
		return RenderTreeJSON(result.Root)
	case types.FormatXML:
		return RenderTreeXML(result.Root)
	default:
		return "", fmt.Errorf(errorUnknownFormat, ErrUnknownFormat, format)
	}
}

// RenderTreeJSON marshals the tree as indented JSON.
func RenderTreeJSON(root *types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(root, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderTreeXML marshals the tree as an indented XML document.
func RenderTreeXML(root *types.TreeNode) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(root, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	if !isRoot {
		if node.IsFolder {
			fmt.Fprintf(writer, "%s%s%s\n", linePrefix, node.Name, folderSuffix)
		} else {
			fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
		}
	}
	for index, child := range node.Children {
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}

// WriteTreeRaw writes the tree below root using box-drawing connectors. Root itself is omitted.
func WriteTreeRaw(writer io.Writer, root *types.TreeNode) {
	renderTreeNode(writer, root, "", true, true)
}
