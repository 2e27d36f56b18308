// Package outline parses the roadmap grammar emitted by the LLM into a
// topic tree. Lines look like:
//
//	Sequence: Linear
//	T1: Introduction to Programming
//	T1.1: Basic Data Types
//	T1.1.1: Integers and Floats
//
// Parsing is line-oriented, single pass, and never fails hard: lines that do
// not match the grammar or break path continuity are skipped with a warning.
package outline

import (
	"regexp"
	"strings"

	"github.com/nmehta/coursegen/internal/topictree"
)

// Warning records a skipped or degraded input line.
type Warning struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result is the parsed forest plus the sequencing hint and any warnings.
type Result struct {
	Topics   []*topictree.TopicNode
	Sequence string
	Warnings []Warning
}

// The level patterns are tried most-specific first: a deeper line also
// matches a shallower pattern's prefix, so order matters.
var (
	deepRe     = regexp.MustCompile(`^T(\d+)\.(\d+)\.(\d+)\.(\d+)((?:\.\d+)+)\s*:\s*(.+)$`)
	level4Re   = regexp.MustCompile(`^T(\d+)\.(\d+)\.(\d+)\.(\d+)\s*:\s*(.+)$`)
	level3Re   = regexp.MustCompile(`^T(\d+)\.(\d+)\.(\d+)\s*:\s*(.+)$`)
	level2Re   = regexp.MustCompile(`^T(\d+)\.(\d+)\s*:\s*(.+)$`)
	level1Re   = regexp.MustCompile(`^T(\d+)\s*:\s*(.+)$`)
	sequenceRe = regexp.MustCompile(`^Sequence\s*:\s*(\S+)`)
)

// MaxLevel is the deepest level the grammar tracks. Deeper lines degrade to
// leaves under the current level-4 node instead of being promoted.
const MaxLevel = 4

// Parse converts raw roadmap text into a topic forest.
func Parse(raw string) *Result {
	res := &Result{}

	// current[l] is the most recent node seen at level l+1.
	var current [MaxLevel]*topictree.TopicNode
	seen := make(map[string]bool)

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineNo := i + 1

		if m := sequenceRe.FindStringSubmatch(line); m != nil {
			res.Sequence = m[1]
			continue
		}

		if m := deepRe.FindStringSubmatch(line); m != nil {
			res.parseDeep(lineNo, line, m, &current, seen)
			continue
		}

		var id, desc string
		var level int
		switch {
		case level4Re.MatchString(line):
			m := level4Re.FindStringSubmatch(line)
			id, desc, level = "T"+m[1]+"."+m[2]+"."+m[3]+"."+m[4], m[5], 4
		case level3Re.MatchString(line):
			m := level3Re.FindStringSubmatch(line)
			id, desc, level = "T"+m[1]+"."+m[2]+"."+m[3], m[4], 3
		case level2Re.MatchString(line):
			m := level2Re.FindStringSubmatch(line)
			id, desc, level = "T"+m[1]+"."+m[2], m[3], 2
		case level1Re.MatchString(line):
			m := level1Re.FindStringSubmatch(line)
			id, desc, level = "T"+m[1], m[2], 1
		default:
			res.warn(lineNo, line, "line does not match outline grammar")
			continue
		}

		node := &topictree.TopicNode{
			ID:          id,
			Title:       strings.TrimSpace(desc),
			Description: strings.TrimSpace(desc),
		}

		if level == 1 {
			if seen[id] {
				res.warn(lineNo, line, "duplicate id "+id)
			}
			res.Topics = append(res.Topics, node)
		} else {
			parent := current[level-2]
			if parent == nil || node.ParentID() != parent.ID {
				res.warn(lineNo, line, "path continuity broken: no current parent "+node.ParentID())
				continue
			}
			if seen[id] {
				res.warn(lineNo, line, "duplicate id "+id)
			}
			parent.Subtopics = append(parent.Subtopics, node)
		}
		seen[id] = true

		current[level-1] = node
		for l := level; l < MaxLevel; l++ {
			current[l] = nil
		}
	}

	return res
}

// parseDeep handles lines nested beyond MaxLevel. They attach as leaves under
// the current level-4 node when the path prefix aligns, and never become the
// current node at any tracked level.
func (r *Result) parseDeep(lineNo int, line string, m []string, current *[MaxLevel]*topictree.TopicNode, seen map[string]bool) {
	prefix := "T" + m[1] + "." + m[2] + "." + m[3] + "." + m[4]
	parent := current[MaxLevel-1]
	if parent == nil || parent.ID != prefix {
		r.warn(lineNo, line, "nested beyond level 4 with no matching ancestor")
		return
	}
	id := prefix + m[5]
	if seen[id] {
		r.warn(lineNo, line, "duplicate id "+id)
	}
	seen[id] = true
	desc := strings.TrimSpace(m[6])
	parent.Subtopics = append(parent.Subtopics, &topictree.TopicNode{
		ID:          id,
		Title:       desc,
		Description: desc,
	})
	r.warn(lineNo, line, "nested beyond level 4, attached as leaf of "+prefix)
}

func (r *Result) warn(line int, text, reason string) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Text: text, Reason: reason})
}
