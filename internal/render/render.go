package render

import (
	"strings"

	"github.com/nmehta/coursegen/internal/topictree"
)

// Tree walks the forest in document order and renders it into the sink: one
// heading per node at level depth+baseOffset, followed by the node's content
// interpreted as markdown, then the node's subtopics.
func Tree(sink DocumentSink, forest []*topictree.TopicNode, baseOffset int) {
	for _, node := range forest {
		level := node.Depth() + baseOffset
		if level < 1 {
			level = 1
		}
		title := node.Title
		if title == "" {
			title = node.Description
		}
		sink.AddHeading(node.ID+": "+title, level)

		if strings.TrimSpace(node.Content) != "" {
			// Content headings nest below the node's own heading.
			Markdown(sink, node.Content, level)
		}

		Tree(sink, node.Subtopics, baseOffset)
	}
}
