package filetree

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/temirov/sitetree/internal/types"
)

// DefaultLocale is the language tag used to order display names.
const DefaultLocale = "tr"

// Sorter orders tree children: folders first, then display names by locale collation.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter returns a Sorter for locale. An unparsable or empty locale falls back to DefaultLocale.
func NewSorter(locale string) Sorter {
	tag, parseError := language.Parse(locale)
	if locale == "" || parseError != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return Sorter{collator: collate.New(tag, collate.IgnoreCase)}
}

// Sort reorders every node's children in place, top-down.
func (sorter Sorter) Sort(node *types.TreeNode) {
	if node == nil {
		return
	}
	sort.SliceStable(node.Children, func(leftIndex, rightIndex int) bool {
		return sorter.less(node.Children[leftIndex], node.Children[rightIndex])
	})
	for _, child := range node.Children {
		sorter.Sort(child)
	}
}

// less ties collation-equal names by byte order so repeated sorts agree.
func (sorter Sorter) less(left, right *types.TreeNode) bool {
	if left.IsFolder != right.IsFolder {
		return left.IsFolder
	}
	if comparison := sorter.collator.CompareString(left.Name, right.Name); comparison != 0 {
		return comparison < 0
	}
	if left.Name != right.Name {
		return left.Name < right.Name
	}
	return left.Slug < right.Slug
}
