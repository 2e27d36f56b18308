package outline

import (
	"strings"
	"testing"

	"github.com/nmehta/coursegen/internal/topictree"
)

func TestParse_FourLevels(t *testing.T) {
	raw := `Sequence: Linear
T1: Intro
T1.1: Basics
T1.1.1: Types
T1.1.1.1: Integers
T2: Advanced
T2.1: Concurrency`

	res := Parse(raw)
	if res.Sequence != "Linear" {
		t.Errorf("sequence: got %q, want Linear", res.Sequence)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", res.Warnings)
	}
	if len(res.Topics) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(res.Topics))
	}
	if got := topictree.Count(res.Topics); got != 6 {
		t.Errorf("expected 6 nodes, got %d", got)
	}

	// Every node's id must encode its depth and its parent's id as prefix.
	depth := 0
	topictree.Walk(res.Topics, func(n *topictree.TopicNode) bool {
		if n.Depth() < 1 || n.Depth() > 4 {
			t.Errorf("node %s: depth %d out of range", n.ID, n.Depth())
		}
		for _, c := range n.Subtopics {
			if c.ParentID() != n.ID {
				t.Errorf("child %s: parent prefix %s, attached under %s", c.ID, c.ParentID(), n.ID)
			}
		}
		depth++
		return true
	})

	deep := topictree.Find(res.Topics, "T1.1.1.1")
	if deep == nil || deep.Title != "Integers" {
		t.Fatalf("T1.1.1.1 not parsed: %+v", deep)
	}
}

func TestParse_SkipsGarbageLines(t *testing.T) {
	raw := `Here is your roadmap:
T1: Intro
* a stray bullet
T1.1: Basics`

	res := Parse(raw)
	if len(res.Topics) != 1 || len(res.Topics[0].Subtopics) != 1 {
		t.Fatalf("tree shape wrong: %+v", res.Topics)
	}
	if len(res.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %+v", res.Warnings)
	}
}

func TestParse_ContinuityBroken(t *testing.T) {
	// A level-3 line before any level-2 line must be skipped, not attached.
	raw := `T1: Intro
T1.2.3: Orphan
T2: Next`

	res := Parse(raw)
	if len(res.Topics) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(res.Topics))
	}
	if topictree.Find(res.Topics, "T1.2.3") != nil {
		t.Error("orphan line should have been skipped")
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %+v", res.Warnings)
	}
}

func TestParse_TopLevelSurvivesBrokenSibling(t *testing.T) {
	res := Parse("T1: A\nT1.2: B\nT1: C")

	var roots []string
	for _, n := range res.Topics {
		roots = append(roots, n.Title)
	}
	if len(roots) != 2 || roots[0] != "A" || roots[1] != "C" {
		t.Fatalf("expected top-level A and C, got %v", roots)
	}
}

func TestParse_DeepLineDegradesToLeaf(t *testing.T) {
	raw := `T1: A
T1.1: B
T1.1.1: C
T1.1.1.1: D
T1.1.1.1.5: E
T1.1.2: F`

	res := Parse(raw)
	leaf := topictree.Find(res.Topics, "T1.1.1.1.5")
	if leaf == nil {
		t.Fatal("deep line should attach as a leaf")
	}
	if len(leaf.Subtopics) != 0 {
		t.Error("degraded node must be a leaf")
	}
	// Sibling parsing must not be corrupted by the deep line.
	if topictree.Find(res.Topics, "T1.1.2") == nil {
		t.Error("sibling after deep line lost")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w.Reason, "beyond level 4") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a degrade warning, got %+v", res.Warnings)
	}
}

func TestParse_DeepLineWithoutAncestor(t *testing.T) {
	res := Parse("T1: A\nT1.2.3.4.5: x")
	if got := topictree.Count(res.Topics); got != 1 {
		t.Fatalf("expected only the root, got %d nodes", got)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %+v", res.Warnings)
	}
}
