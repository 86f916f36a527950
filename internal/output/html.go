package output

import (
	"html"
	"strconv"
	"strings"

	"github.com/temirov/sitetree/internal/types"
)

const (
	htmlIndentUnit      = "  "
	htmlNestedConnector = "├── "
	htmlFolderIcon      = "📁"
	htmlFileIcon        = "📄"
	htmlLinkPrefix      = "/"

	treeViewOpen  = `<div class="tree-view">`
	treeViewClose = `</div>`
)

// RenderTreeHTML renders the children of root as concatenated tree items.
// The synthetic root itself is not rendered.
func RenderTreeHTML(root *types.TreeNode) string {
	if root == nil {
		return ""
	}
	var builder strings.Builder
	for _, child := range root.Children {
		writeTreeItem(&builder, child)
	}
	return builder.String()
}

// RenderTreeView wraps RenderTreeHTML in the tree-view container injected into the modal.
func RenderTreeView(root *types.TreeNode) string {
	return treeViewOpen + RenderTreeHTML(root) + treeViewClose
}

// RenderTreeNodeHTML renders a single non-root node followed by its descendants.
func RenderTreeNodeHTML(node *types.TreeNode) string {
	var builder strings.Builder
	writeTreeItem(&builder, node)
	return builder.String()
}

func writeTreeItem(builder *strings.Builder, node *types.TreeNode) {
	if node == nil {
		return
	}
	indentDepth := node.Level - 1
	if indentDepth < 0 {
		indentDepth = 0
	}
	icon := htmlFileIcon
	if node.IsFolder {
		icon = htmlFolderIcon
	}
	connector := ""
	if node.Level > 1 {
		connector = htmlNestedConnector
	}

	builder.WriteString(`<div class="tree-item `)
	builder.WriteString(node.Kind())
	builder.WriteString(`" data-level="`)
	builder.WriteString(strconv.Itoa(node.Level))
	builder.WriteString("\">\n      ")
	builder.WriteString(strings.Repeat(htmlIndentUnit, indentDepth))
	builder.WriteString(connector)
	builder.WriteString(icon)
	builder.WriteString(" ")
	if node.IsFolder {
		builder.WriteString(`<span class="tree-folder-name">`)
		builder.WriteString(html.EscapeString(node.Name))
		builder.WriteString(`</span>`)
	} else {
		builder.WriteString(`<a href="`)
		builder.WriteString(html.EscapeString(htmlLinkPrefix + node.Slug))
		builder.WriteString(`" class="tree-file-link">`)
		builder.WriteString(html.EscapeString(node.Name))
		builder.WriteString(`</a>`)
	}
	builder.WriteString(`</div>`)

	for _, child := range node.Children {
		writeTreeItem(builder, child)
	}
}
