package topictree

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the editable intermediate artifact: the annotated tree plus the
// inputs it was generated from. It round-trips losslessly through JSON.
type Snapshot struct {
	Subject    string       `json:"subject"`
	Difficulty string       `json:"difficulty"`
	Topics     []*TopicNode `json:"topics"`
}

// Marshal serializes the snapshot with indentation, matching the on-disk
// artifact format.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot parses a snapshot previously produced by Marshal (or
// edited by a user in between).
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// ApplyEdits overwrites node content from an edited snapshot, matched by id.
// Structure changes are ignored: only content of existing ids is applied.
// Returns the ids that had no match in the base tree.
func (s *Snapshot) ApplyEdits(edited *Snapshot) []string {
	var unmatched []string
	Walk(edited.Topics, func(n *TopicNode) bool {
		target := Find(s.Topics, n.ID)
		if target == nil {
			unmatched = append(unmatched, n.ID)
			return true
		}
		target.Content = n.Content
		return true
	})
	return unmatched
}
