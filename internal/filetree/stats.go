package filetree

import "github.com/temirov/sitetree/internal/types"

// CalculateStats counts folders and files below and including node.
// The synthetic root counts as one folder.
func CalculateStats(node *types.TreeNode) types.TreeStats {
	var stats types.TreeStats
	if node == nil {
		return stats
	}
	if node.IsFolder {
		stats.Folders = 1
	} else {
		stats.Files = 1
	}
	for _, child := range node.Children {
		childStats := CalculateStats(child)
		stats.Folders += childStats.Folders
		stats.Files += childStats.Files
	}
	return stats
}
