package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/nmehta/coursegen/internal/config"
	"github.com/nmehta/coursegen/internal/store"
)

func TestOrchestratorProcessesJobs(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := st.CreateCourse(&store.Course{ID: "c1", Subject: "Optics", SyllabusText: "Lenses", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	gw := &stageGateway{roadmap: "T1: Lenses"}
	o := NewOrchestrator(cfg, gw, st, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job, err := o.Submit("c1", StageRoadmap, JobOptions{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := o.GetJob(job.ID).Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed {
			t.Fatalf("job failed: %v", snap.Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete: %+v", snap)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := st.Roadmap("c1"); err != nil {
		t.Errorf("roadmap not stored: %v", err)
	}
}

func TestOrchestratorQueueFull(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, &stageGateway{roadmap: "T1: X"}, st, testLogger())
	// Not started: the queue fills up.

	if _, err := o.Submit("c1", StageRoadmap, JobOptions{}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := o.Submit("c1", StageRoadmap, JobOptions{}); err == nil {
		t.Fatal("second submit should fail with a full queue")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d, want 1", o.QueueDepth())
	}
}
