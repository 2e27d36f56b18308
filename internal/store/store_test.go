package store

import (
	"errors"
	"testing"
	"time"

	"github.com/nmehta/coursegen/internal/topictree"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCourseLifecycle(t *testing.T) {
	s := newTestStore(t)
	c := &Course{
		ID:           "c1",
		Subject:      "Linear Algebra",
		Difficulty:   "intermediate",
		SyllabusText: "T1: Vectors",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.CreateCourse(c); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if err := s.CreateCourse(c); err == nil {
		t.Error("duplicate CreateCourse should fail")
	}

	got, err := s.GetCourse("c1")
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if got.Subject != "Linear Algebra" || got.SyllabusText != "T1: Vectors" {
		t.Errorf("unexpected course: %+v", got)
	}

	if _, err := s.GetCourse("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCourse missing = %v, want ErrNotFound", err)
	}
}

func TestArtifacts(t *testing.T) {
	s := newTestStore(t)
	c := &Course{ID: "c1", Subject: "Physics", CreatedAt: time.Now().UTC()}
	if err := s.CreateCourse(c); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if _, err := s.Roadmap("c1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Roadmap before save = %v, want ErrNotFound", err)
	}
	if err := s.SaveRoadmap("c1", "T1: Mechanics\nT1.1: Kinematics"); err != nil {
		t.Fatalf("SaveRoadmap: %v", err)
	}
	roadmap, err := s.Roadmap("c1")
	if err != nil {
		t.Fatalf("Roadmap: %v", err)
	}
	if roadmap != "T1: Mechanics\nT1.1: Kinematics" {
		t.Errorf("roadmap = %q", roadmap)
	}

	snap := &topictree.Snapshot{
		Subject:    "Physics",
		Difficulty: "beginner",
		Topics: []*topictree.TopicNode{
			{ID: "T1", Title: "Mechanics", Content: "plan text"},
		},
	}
	if err := s.SavePlan("c1", snap); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	plan, err := s.Plan("c1")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Topics) != 1 || plan.Topics[0].Content != "plan text" {
		t.Errorf("plan round trip failed: %+v", plan)
	}

	if err := s.SaveNotes("c1", snap); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}
	if _, err := s.Notes("c1"); err != nil {
		t.Fatalf("Notes: %v", err)
	}

	// Saving against an unknown course fails cleanly.
	if err := s.SaveRoadmap("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveRoadmap unknown course = %v, want ErrNotFound", err)
	}
}

func TestHasArtifacts(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateCourse(&Course{ID: "c1", Subject: "Physics", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	arts, err := s.HasArtifacts("c1")
	if err != nil {
		t.Fatalf("HasArtifacts: %v", err)
	}
	if arts.Roadmap || arts.Plan || arts.Notes {
		t.Errorf("fresh course reports artifacts: %+v", arts)
	}

	if err := s.SaveRoadmap("c1", "T1: Mechanics"); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePlan("c1", &topictree.Snapshot{Subject: "Physics"}); err != nil {
		t.Fatal(err)
	}
	arts, err = s.HasArtifacts("c1")
	if err != nil {
		t.Fatalf("HasArtifacts: %v", err)
	}
	if !arts.Roadmap || !arts.Plan || arts.Notes {
		t.Errorf("after roadmap+plan: %+v", arts)
	}
}

func TestListCourses(t *testing.T) {
	s := newTestStore(t)
	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	if err := s.CreateCourse(&Course{ID: "a", Subject: "A", CreatedAt: older}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateCourse(&Course{ID: "b", Subject: "B", CreatedAt: newer}); err != nil {
		t.Fatal(err)
	}
	courses, err := s.ListCourses()
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "b" || courses[1].ID != "a" {
		t.Errorf("unexpected order: %+v", courses)
	}
}

func TestInvalidCourseID(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateCourse(&Course{ID: "../escape"}); err == nil {
		t.Error("path traversal id should be rejected")
	}
}
