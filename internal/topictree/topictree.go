package topictree

import "strings"

// TopicNode is one entry in the topic hierarchy produced from a roadmap.
// The id is a dot-separated numeric path with a "T" prefix ("T1", "T1.2",
// "T1.2.3"); its component count equals the node's depth.
type TopicNode struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Content     string       `json:"content"`
	Subtopics   []*TopicNode `json:"subtopics,omitempty"`
}

// Label returns the text shown to the LLM for this node. Successive stages
// may populate either field, so fall back from description to title.
func (n *TopicNode) Label() string {
	if n.Description != "" {
		return n.Description
	}
	return n.Title
}

// Depth is the number of path components in the node's id ("T1.2.3" -> 3).
func (n *TopicNode) Depth() int {
	if n.ID == "" {
		return 0
	}
	return strings.Count(n.ID, ".") + 1
}

// ParentID returns the id of the immediate parent, or "" for a root node.
func (n *TopicNode) ParentID() string {
	i := strings.LastIndex(n.ID, ".")
	if i < 0 {
		return ""
	}
	return n.ID[:i]
}

// Count returns the total number of nodes in the forest.
func Count(forest []*TopicNode) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.Subtopics)
	}
	return total
}

// Find returns the node with the given id, or nil.
func Find(forest []*TopicNode, id string) *TopicNode {
	for _, n := range forest {
		if n.ID == id {
			return n
		}
		if found := Find(n.Subtopics, id); found != nil {
			return found
		}
	}
	return nil
}

// Clone deep-copies the forest. The lecture-notes stage writes into a clone
// so the lesson-plan tree stays intact for by-id lookup.
func Clone(forest []*TopicNode) []*TopicNode {
	if forest == nil {
		return nil
	}
	out := make([]*TopicNode, len(forest))
	for i, n := range forest {
		c := *n
		c.Subtopics = Clone(n.Subtopics)
		out[i] = &c
	}
	return out
}

// Walk visits every node in document order, parents before children.
// Returning false from fn stops the walk.
func Walk(forest []*TopicNode, fn func(*TopicNode) bool) bool {
	for _, n := range forest {
		if !fn(n) {
			return false
		}
		if !Walk(n.Subtopics, fn) {
			return false
		}
	}
	return true
}
