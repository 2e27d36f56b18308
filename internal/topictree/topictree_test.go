package topictree

import (
	"reflect"
	"testing"
)

func sampleTree() *Snapshot {
	return &Snapshot{
		Subject:    "Opérations Quantiques",
		Difficulty: "Mtech",
		Topics: []*TopicNode{
			{
				ID: "T1", Title: "導入", Description: "導入", Content: "# Überblick\n- eins",
				Subtopics: []*TopicNode{
					{
						ID: "T1.1", Title: "Qubits", Content: "los **qubits** básicos",
						Subtopics: []*TopicNode{
							{ID: "T1.1.1", Title: "Bloch sphere", Content: "σ matrices; ψ states"},
						},
					},
					{ID: "T1.2", Title: "Gates", Content: ""},
				},
			},
			{ID: "T2", Title: "Entanglement", Content: "plain"},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := sampleTree()

	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, restored) {
		t.Errorf("round trip not lossless:\noriginal: %+v\nrestored: %+v", original, restored)
	}
}

func TestCountAndFind(t *testing.T) {
	s := sampleTree()
	if got := Count(s.Topics); got != 6 {
		t.Errorf("Count: got %d, want 6", got)
	}
	n := Find(s.Topics, "T1.1.1")
	if n == nil || n.Title != "Bloch sphere" {
		t.Fatalf("Find T1.1.1: got %+v", n)
	}
	if Find(s.Topics, "T9") != nil {
		t.Error("Find of missing id should be nil")
	}
}

func TestDepthAndParentID(t *testing.T) {
	n := &TopicNode{ID: "T1.2.3"}
	if n.Depth() != 3 {
		t.Errorf("Depth: got %d, want 3", n.Depth())
	}
	if n.ParentID() != "T1.2" {
		t.Errorf("ParentID: got %q, want T1.2", n.ParentID())
	}
	root := &TopicNode{ID: "T4"}
	if root.ParentID() != "" {
		t.Errorf("root ParentID: got %q, want empty", root.ParentID())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := sampleTree()
	clone := Clone(s.Topics)
	clone[0].Subtopics[0].Content = "overwritten"
	if s.Topics[0].Subtopics[0].Content == "overwritten" {
		t.Error("Clone shares node memory with the original")
	}
	if Count(clone) != Count(s.Topics) {
		t.Error("Clone changed node count")
	}
}

func TestApplyEdits(t *testing.T) {
	base := sampleTree()
	edited := sampleTree()
	Find(edited.Topics, "T1.2").Content = "user wrote this"
	edited.Topics = append(edited.Topics, &TopicNode{ID: "T7", Content: "new"})

	unmatched := base.ApplyEdits(edited)

	if got := Find(base.Topics, "T1.2").Content; got != "user wrote this" {
		t.Errorf("edit not applied: %q", got)
	}
	if len(unmatched) != 1 || unmatched[0] != "T7" {
		t.Errorf("unmatched ids: got %v, want [T7]", unmatched)
	}
}
