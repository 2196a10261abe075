package model

import "strings"

// FlattenChapters returns all chapter nodes in the forest in depth-first
// document order. Groups are descended into but not included.
func FlattenChapters(nodes []*Node) []*Node {
	var chapters []*Node
	for _, n := range nodes {
		if n.IsChapter() {
			chapters = append(chapters, n)
		}
		if len(n.Children) > 0 {
			chapters = append(chapters, FlattenChapters(n.Children)...)
		}
	}
	return chapters
}

// RecomputeWordCounts walks the forest bottom-up and sets every group's word
// count to the sum of its children's word counts. Chapter counts are taken
// as-is. Returns the total word count of the forest.
func RecomputeWordCounts(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		if n.Kind == KindGroup {
			n.Words = RecomputeWordCounts(n.Children)
		}
		total += n.Words
	}
	return total
}

// Find returns the node with the given ID, searching depth-first, or nil
func Find(nodes []*Node, id string) *Node {
	node, _ := FindWithParent(nodes, id)
	return node
}

// FindWithParent returns the node with the given ID and its parent node.
// The parent is nil for root-level nodes and when the ID is not found.
func FindWithParent(nodes []*Node, id string) (*Node, *Node) {
	for _, n := range nodes {
		if n.ID == id {
			return n, nil
		}
		if found, parent := FindWithParent(n.Children, id); found != nil {
			if parent == nil {
				parent = n
			}
			return found, parent
		}
	}
	return nil, nil
}

// Insert appends node as the last child of the node identified by parentID,
// or at the root level when parentID is empty. Returns the updated forest and
// false when parentID is given but not found.
func Insert(nodes []*Node, parentID string, node *Node) ([]*Node, bool) {
	if parentID == "" {
		return append(nodes, node), true
	}
	parent := Find(nodes, parentID)
	if parent == nil {
		return nodes, false
	}
	parent.Children = append(parent.Children, node)
	return nodes, true
}

// Remove detaches the subtree rooted at id and returns it along with the
// updated forest. The detached node is nil when the ID is not found.
func Remove(nodes []*Node, id string) ([]*Node, *Node) {
	for i, n := range nodes {
		if n.ID == id {
			return append(nodes[:i:i], nodes[i+1:]...), n
		}
	}
	for _, n := range nodes {
		children, removed := Remove(n.Children, id)
		if removed != nil {
			n.Children = children
			return nodes, removed
		}
	}
	return nodes, nil
}

// Move detaches the node with the given ID and re-inserts it as the last
// child of targetParentID (root level when empty). A move into the node
// itself or one of its descendants would break the tree invariant and is
// rejected before any mutation. Returns the forest and false when rejected
// or when either node is missing.
func Move(nodes []*Node, id, targetParentID string) ([]*Node, bool) {
	if targetParentID == id {
		return nodes, false
	}
	node := Find(nodes, id)
	if node == nil {
		return nodes, false
	}
	if targetParentID != "" {
		if IsDescendant(node, targetParentID) {
			return nodes, false
		}
		if Find(nodes, targetParentID) == nil {
			return nodes, false
		}
	}
	nodes, removed := Remove(nodes, id)
	if removed == nil {
		return nodes, false
	}
	return Insert(nodes, targetParentID, removed)
}

// IsDescendant reports whether id names a node somewhere below n
func IsDescendant(n *Node, id string) bool {
	for _, child := range n.Children {
		if child.ID == id || IsDescendant(child, id) {
			return true
		}
	}
	return false
}

// ReorderSiblings rearranges the children of parentID (root level when
// empty) according to orderedIDs: nodes named there come first in that
// order, children not named keep their prior relative order and follow.
// Unknown IDs in orderedIDs are ignored, so stale lists never drop nodes.
// Returns false when the parent is not found.
func ReorderSiblings(nodes []*Node, parentID string, orderedIDs []string) ([]*Node, bool) {
	if parentID == "" {
		return reorder(nodes, orderedIDs), true
	}
	parent := Find(nodes, parentID)
	if parent == nil {
		return nodes, false
	}
	parent.Children = reorder(parent.Children, orderedIDs)
	return nodes, true
}

func reorder(children []*Node, orderedIDs []string) []*Node {
	byID := make(map[string]*Node, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}
	result := make([]*Node, 0, len(children))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if c, ok := byID[id]; ok && !seen[id] {
			result = append(result, c)
			seen[id] = true
		}
	}
	for _, c := range children {
		if !seen[c.ID] {
			result = append(result, c)
		}
	}
	return result
}

// CollectChapterIDs returns the IDs of all chapter nodes in the subtree
// rooted at n, including n itself when it is a chapter. Used to find the
// content, draft and timeline files that belong to a subtree.
func CollectChapterIDs(n *Node) []string {
	var ids []string
	if n.IsChapter() {
		ids = append(ids, n.ID)
	}
	for _, child := range n.Children {
		ids = append(ids, CollectChapterIDs(child)...)
	}
	return ids
}

// CountWords counts whitespace-separated words in content
func CountWords(content string) int {
	return len(strings.Fields(content))
}
