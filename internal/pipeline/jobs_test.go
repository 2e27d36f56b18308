package pipeline

import (
	"testing"
	"time"

	"github.com/nmehta/coursegen/internal/llm"
)

func TestJobStateTransitions(t *testing.T) {
	job := newJob("c1", StagePlan, JobOptions{})
	snap := job.Snapshot()
	if snap.Status != StatusQueued {
		t.Errorf("new job status = %q, want queued", snap.Status)
	}
	if snap.CourseID != "c1" || snap.Stage != StagePlan {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	before := snap.UpdatedAt
	time.Sleep(time.Millisecond)
	job.SetStatus(StatusRunning)
	snap = job.Snapshot()
	if snap.Status != StatusRunning {
		t.Errorf("status = %q, want running", snap.Status)
	}
	if !snap.UpdatedAt.After(before) {
		t.Error("UpdatedAt should advance on SetStatus")
	}
}

func TestJobProgressMonotonic(t *testing.T) {
	job := newJob("c1", StagePlan, JobOptions{})
	job.SetProgress(0.5)
	job.SetProgress(0.25) // stale report must not move progress backwards
	if got := job.Snapshot().Progress; got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	job.SetProgress(1.0)
	if got := job.Snapshot().Progress; got != 1.0 {
		t.Errorf("progress = %v, want 1.0", got)
	}
}

func TestJobErrors(t *testing.T) {
	job := newJob("c1", StageNotes, JobOptions{Highlighted: []string{"T1.1"}})
	job.AddError("node T1.1: boom")
	job.AddError("node T1.2: boom")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 || snap.Errors[0] != "node T1.1: boom" {
		t.Errorf("unexpected errors: %v", snap.Errors)
	}

	// Snapshot errors are a copy.
	snap.Errors[0] = "mutated"
	if job.Snapshot().Errors[0] != "node T1.1: boom" {
		t.Error("snapshot mutation leaked into job")
	}
}

func TestJobSnapshotErrorsNotNil(t *testing.T) {
	snap := newJob("c1", StageRoadmap, JobOptions{}).Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestJobStorePutGet(t *testing.T) {
	s := NewJobStore(time.Hour)
	job := newJob("c1", StageRoadmap, JobOptions{})
	s.Put(job)

	if got := s.Get(job.ID); got == nil || got.ID != job.ID {
		t.Fatalf("Get(%q) = %v", job.ID, got)
	}
	if s.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStoreTTL(t *testing.T) {
	s := NewJobStore(50 * time.Millisecond)
	job := newJob("c1", StageRoadmap, JobOptions{})
	s.Put(job)

	time.Sleep(150 * time.Millisecond)
	if s.Get(job.ID) != nil {
		t.Error("expected job to expire after TTL")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("id %q has length %d, want 26", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&llm.RetryableError{StatusCode: 429, Message: "rate limited"}) {
		t.Error("429 should be retryable")
	}
	if IsRetryable(&llm.GenerationError{Provider: "gemini", Cause: "bad prompt"}) {
		t.Error("generation error should not be retryable")
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		if d < time.Second || d > 45*time.Second {
			t.Errorf("Backoff(%d) = %v, out of expected range", attempt, d)
		}
	}
}
