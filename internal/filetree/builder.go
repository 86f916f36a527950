package filetree

import (
	"strings"

	"github.com/temirov/sitetree/internal/types"
)

const slugSeparator = "/"

// Builder reconstructs the folder hierarchy of a set of slugs.
type Builder struct {
	Classifier Classifier
}

// NewBuilder returns a Builder using the provided classifier.
func NewBuilder(classifier Classifier) Builder {
	return Builder{Classifier: classifier}
}

// Build returns the synthetic root of the tree described by slugs.
// Nodes are indexed by their cumulative prefix so shared prefixes are created once.
// Construction of a slug stops at its first excluded folder, so the folders in front
// of it stay. A terminal segment that is not a document is skipped, leaving its
// folders in place.
// Children are left in insertion order.
func (builder Builder) Build(slugs []string) *types.TreeNode {
	rootNode := &types.TreeNode{
		Name:     types.RootNodeName,
		Slug:     "",
		IsFolder: true,
		Level:    0,
	}
	nodeBySlug := map[string]*types.TreeNode{"": rootNode}

	for _, slug := range slugs {
		pathSegments := splitSlug(slug)
		currentPath := ""
		currentNode := rootNode

		for segmentIndex, segment := range pathSegments {
			isLastSegment := segmentIndex == len(pathSegments)-1
			nextPath := joinSlug(currentPath, segment)

			if isLastSegment && !builder.Classifier.IsDocumentFile(segment) {
				continue
			}

			childNode, exists := nodeBySlug[nextPath]
			if !exists {
				isFolder := !isLastSegment
				if isFolder && builder.Classifier.IsExcludedFolder(segment) {
					break
				}
				displayName := segment
				if !isFolder {
					displayName = builder.Classifier.DisplayName(segment)
				}
				childNode = &types.TreeNode{
					Name:     displayName,
					Slug:     nextPath,
					IsFolder: isFolder,
					Level:    segmentIndex + 1,
				}
				nodeBySlug[nextPath] = childNode
				currentNode.Children = append(currentNode.Children, childNode)
			} else if !isLastSegment && !childNode.IsFolder {
				// A document is always a leaf; deeper segments of this slug are dropped.
				break
			}

			currentNode = childNode
			currentPath = nextPath
		}
	}

	return rootNode
}

// splitSlug splits slug on the separator and drops empty segments.
func splitSlug(slug string) []string {
	rawSegments := strings.Split(slug, slugSeparator)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

func joinSlug(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + slugSeparator + segment
}
