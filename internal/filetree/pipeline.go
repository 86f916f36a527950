package filetree

import (
	"github.com/temirov/sitetree/internal/contentindex"
	"github.com/temirov/sitetree/internal/types"
)

// Result is a freshly built, sorted tree with its stats.
type Result struct {
	Root  *types.TreeNode
	Stats types.TreeStats
}

// Pipeline builds, sorts and counts a tree from a content index.
type Pipeline struct {
	Classifier Classifier
	Locale     string
}

// NewPipeline returns a Pipeline with the given classifier and collation locale.
func NewPipeline(classifier Classifier, locale string) Pipeline {
	return Pipeline{Classifier: classifier, Locale: locale}
}

// Run rebuilds the tree from source. A nil source produces an empty tree.
func (pipeline Pipeline) Run(source contentindex.Source) Result {
	var slugs []string
	if source != nil {
		slugs = source.Slugs()
	}
	rootNode := NewBuilder(pipeline.Classifier).Build(slugs)
	NewSorter(pipeline.Locale).Sort(rootNode)
	return Result{
		Root:  rootNode,
		Stats: CalculateStats(rootNode),
	}
}
