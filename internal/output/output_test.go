package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/temirov/sitetree/internal/contentindex"
	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/output"
	"github.com/temirov/sitetree/internal/types"
)

var turkishLabels = types.StatsLabels{Folders: "klasör", Files: "dosya"}

// nestedTreeHTML is the markup of the index {"a/b.md","a/c.md","notes.md"}.
const nestedTreeHTML = "<div class=\"tree-item folder\" data-level=\"1\">\n      📁 <span class=\"tree-folder-name\">a</span></div>" +
	"<div class=\"tree-item file\" data-level=\"2\">\n        ├── 📄 <a href=\"/a/b.md\" class=\"tree-file-link\">b</a></div>" +
	"<div class=\"tree-item file\" data-level=\"2\">\n        ├── 📄 <a href=\"/a/c.md\" class=\"tree-file-link\">c</a></div>" +
	"<div class=\"tree-item file\" data-level=\"1\">\n      📄 <a href=\"/notes.md\" class=\"tree-file-link\">notes</a></div>"

const nestedTreeRaw = "├── a/\n" +
	"│   ├── b\n" +
	"│   └── c\n" +
	"└── notes\n" +
	"Summary: 1 klasör, 3 dosya\n"

func nestedResult() filetree.Result {
	pipeline := filetree.NewPipeline(filetree.NewClassifier(nil, ""), filetree.DefaultLocale)
	return pipeline.Run(contentindex.FromSlugs("a/b.md", "a/c.md", "notes.md"))
}

func TestRenderTreeHTML(testingInstance *testing.T) {
	result := nestedResult()
	if rendered := output.RenderTreeHTML(result.Root); rendered != nestedTreeHTML {
		testingInstance.Fatalf("unexpected markup:\n%s\nwant:\n%s", rendered, nestedTreeHTML)
	}
	if view := output.RenderTreeView(result.Root); view != `<div class="tree-view">`+nestedTreeHTML+`</div>` {
		testingInstance.Fatalf("unexpected tree view:\n%s", view)
	}
	if output.RenderTreeHTML(nil) != "" {
		testingInstance.Fatalf("nil root should render nothing")
	}
	if view := output.RenderTreeView(filetree.Result{}.Root); view != `<div class="tree-view"></div>` {
		testingInstance.Fatalf("empty tree view = %q", view)
	}
}

func TestRenderTreeNodeHTMLDeepIndent(testingInstance *testing.T) {
	node := &types.TreeNode{Name: "deep", Slug: "x/y/deep.md", Level: 3}
	expected := "<div class=\"tree-item file\" data-level=\"3\">\n          ├── 📄 <a href=\"/x/y/deep.md\" class=\"tree-file-link\">deep</a></div>"
	if rendered := output.RenderTreeNodeHTML(node); rendered != expected {
		testingInstance.Fatalf("unexpected markup:\n%q\nwant:\n%q", rendered, expected)
	}
}

func TestRenderTreeHTMLEscapesNames(testingInstance *testing.T) {
	root := &types.TreeNode{Name: types.RootNodeName, IsFolder: true, Children: []*types.TreeNode{
		{Name: `<script>"x"`, Slug: `q&a/<script>"x".md`, Level: 1},
	}}
	rendered := output.RenderTreeHTML(root)
	if strings.Contains(rendered, "<script>") {
		testingInstance.Fatalf("name not escaped: %s", rendered)
	}
	if !strings.Contains(rendered, `href="/q&amp;a/&lt;script&gt;&#34;x&#34;.md"`) {
		testingInstance.Fatalf("href not escaped: %s", rendered)
	}
}

func TestLinksMatchSlugs(testingInstance *testing.T) {
	result := nestedResult()
	rendered := output.RenderTreeHTML(result.Root)
	var visit func(*types.TreeNode)
	visit = func(node *types.TreeNode) {
		for _, child := range node.Children {
			if !child.IsFolder && !strings.Contains(rendered, `href="/`+child.Slug+`"`) {
				testingInstance.Fatalf("missing link for %s", child.Slug)
			}
			visit(child)
		}
	}
	visit(result.Root)
}

func TestRenderTree(testingInstance *testing.T) {
	result := nestedResult()

	testCases := []struct {
		name     string
		format   string
		validate func(*testing.T, string)
	}{
		{
			name:   "html",
			format: types.FormatHTML,
			validate: func(testingInstance *testing.T, rendered string) {
				if !strings.HasPrefix(rendered, `<div class="tree-view">`) {
					testingInstance.Fatalf("unexpected html %s", rendered)
				}
			},
		},
		{
			name:   "raw",
			format: types.FormatRaw,
			validate: func(testingInstance *testing.T, rendered string) {
				if rendered != nestedTreeRaw {
					testingInstance.Fatalf("unexpected raw output:\n%s\nwant:\n%s", rendered, nestedTreeRaw)
				}
			},
		},
		{
			name:   "json",
			format: types.FormatJSON,
			validate: func(testingInstance *testing.T, rendered string) {
				var decoded types.TreeNode
				if decodeError := json.Unmarshal([]byte(rendered), &decoded); decodeError != nil {
					testingInstance.Fatalf("decode json: %v", decodeError)
				}
				if decoded.Name != types.RootNodeName || len(decoded.Children) != 2 || decoded.Children[0].Children[1].Slug != "a/c.md" {
					testingInstance.Fatalf("unexpected json tree %+v", decoded)
				}
			},
		},
		{
			name:   "xml",
			format: types.FormatXML,
			validate: func(testingInstance *testing.T, rendered string) {
				if !strings.HasPrefix(rendered, "<?xml") || !strings.Contains(rendered, "<slug>notes.md</slug>") {
					testingInstance.Fatalf("unexpected xml %s", rendered)
				}
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			rendered, renderError := output.RenderTree(testCase.format, result, turkishLabels)
			if renderError != nil {
				testingInstance.Fatalf("RenderTree(%s): %v", testCase.format, renderError)
			}
			testCase.validate(testingInstance, rendered)
		})
	}
}

func TestRenderTreeUnknownFormat(testingInstance *testing.T) {
	_, renderError := output.RenderTree("yaml", nestedResult(), turkishLabels)
	if !errors.Is(renderError, output.ErrUnknownFormat) {
		testingInstance.Fatalf("expected ErrUnknownFormat, got %v", renderError)
	}
	if output.IsSupportedFormat("yaml") || !output.IsSupportedFormat(types.FormatHTML) {
		testingInstance.Fatalf("IsSupportedFormat mismatch")
	}
}

func TestFormatStatsLabels(testingInstance *testing.T) {
	testCases := []struct {
		name           string
		stats          types.TreeStats
		expectedFolder string
		expectedFile   string
	}{
		{name: "root only", stats: types.TreeStats{Folders: 1}, expectedFolder: "0 klasör", expectedFile: "0 dosya"},
		{name: "nested", stats: types.TreeStats{Folders: 2, Files: 3}, expectedFolder: "1 klasör", expectedFile: "3 dosya"},
		{name: "thousands", stats: types.TreeStats{Folders: 1201, Files: 12345}, expectedFolder: "1,200 klasör", expectedFile: "12,345 dosya"},
		{name: "zero value", stats: types.TreeStats{}, expectedFolder: "0 klasör", expectedFile: "0 dosya"},
	}
	for _, testCase := range testCases {
		folderLabel, fileLabel := output.FormatStatsLabels(testCase.stats, turkishLabels)
		if folderLabel != testCase.expectedFolder || fileLabel != testCase.expectedFile {
			testingInstance.Fatalf("%s: got %q %q", testCase.name, folderLabel, fileLabel)
		}
	}
}

func TestWriteTreeRawEmpty(testingInstance *testing.T) {
	var buffer bytes.Buffer
	output.WriteTreeRaw(&buffer, &types.TreeNode{Name: types.RootNodeName, IsFolder: true})
	if buffer.Len() != 0 {
		testingInstance.Fatalf("empty tree wrote %q", buffer.String())
	}
}
