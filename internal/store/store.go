// Package store persists courses and their generated artifacts on
// local disk. Each course owns a directory under the store root:
//
//	<root>/<courseID>/course.json    course metadata + syllabus text
//	<root>/<courseID>/roadmap.txt    topic outline (T-number lines)
//	<root>/<courseID>/plan.json      lesson plan snapshot
//	<root>/<courseID>/notes.json     lecture notes snapshot
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/nmehta/coursegen/internal/topictree"
)

// ErrNotFound is returned when a course or artifact does not exist.
var ErrNotFound = errors.New("not found")

// Course is the persisted metadata for one course.
type Course struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Difficulty    string    `json:"difficulty"`
	SyllabusText  string    `json:"syllabus_text"`
	ReferenceText string    `json:"reference_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store is a disk-backed course repository. All mutations go through a
// single mutex; files are written via temp-and-rename so readers never
// observe a partial write.
type Store struct {
	root string
	mu   sync.Mutex
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: root}, nil
}

var courseIDRe = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

func (s *Store) courseDir(courseID string) (string, error) {
	if !courseIDRe.MatchString(courseID) {
		return "", fmt.Errorf("invalid course id %q", courseID)
	}
	return filepath.Join(s.root, courseID), nil
}

// CreateCourse writes a new course directory. The course ID must be
// unique.
func (s *Store) CreateCourse(c *Course) error {
	dir, err := s.courseDir(c.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("course %s already exists", c.ID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create course dir: %w", err)
	}
	return writeJSON(filepath.Join(dir, "course.json"), c)
}

// GetCourse loads course metadata. Returns ErrNotFound for unknown IDs.
func (s *Store) GetCourse(courseID string) (*Course, error) {
	dir, err := s.courseDir(courseID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Course
	if err := readJSON(filepath.Join(dir, "course.json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCourses returns all courses, newest first.
func (s *Store) ListCourses() ([]*Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store root: %w", err)
	}
	out := make([]*Course, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var c Course
		if err := readJSON(filepath.Join(s.root, e.Name(), "course.json"), &c); err != nil {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SaveRoadmap stores the raw outline text and bumps UpdatedAt.
func (s *Store) SaveRoadmap(courseID, text string) error {
	return s.saveArtifact(courseID, "roadmap.txt", []byte(text))
}

// Roadmap returns the stored outline text.
func (s *Store) Roadmap(courseID string) (string, error) {
	data, err := s.artifact(courseID, "roadmap.txt")
	return string(data), err
}

// SavePlan stores the lesson plan snapshot.
func (s *Store) SavePlan(courseID string, snap *topictree.Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	return s.saveArtifact(courseID, "plan.json", data)
}

// Plan returns the stored lesson plan snapshot.
func (s *Store) Plan(courseID string) (*topictree.Snapshot, error) {
	data, err := s.artifact(courseID, "plan.json")
	if err != nil {
		return nil, err
	}
	return topictree.UnmarshalSnapshot(data)
}

// SaveNotes stores the lecture notes snapshot.
func (s *Store) SaveNotes(courseID string, snap *topictree.Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	return s.saveArtifact(courseID, "notes.json", data)
}

// Notes returns the stored lecture notes snapshot.
func (s *Store) Notes(courseID string) (*topictree.Snapshot, error) {
	data, err := s.artifact(courseID, "notes.json")
	if err != nil {
		return nil, err
	}
	return topictree.UnmarshalSnapshot(data)
}

// Artifacts reports which generated artifacts exist for a course.
type Artifacts struct {
	Roadmap bool `json:"roadmap"`
	Plan    bool `json:"plan"`
	Notes   bool `json:"notes"`
}

// HasArtifacts checks which stage outputs are on disk for a course.
func (s *Store) HasArtifacts(courseID string) (Artifacts, error) {
	dir, err := s.courseDir(courseID)
	if err != nil {
		return Artifacts{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}
	return Artifacts{
		Roadmap: exists("roadmap.txt"),
		Plan:    exists("plan.json"),
		Notes:   exists("notes.json"),
	}, nil
}

func (s *Store) saveArtifact(courseID, name string, data []byte) error {
	dir, err := s.courseDir(courseID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(filepath.Join(dir, "course.json")); err != nil {
		return ErrNotFound
	}
	if err := writeAtomic(filepath.Join(dir, name), data); err != nil {
		return err
	}
	return s.touchLocked(dir)
}

func (s *Store) artifact(courseID, name string) ([]byte, error) {
	dir, err := s.courseDir(courseID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *Store) touchLocked(dir string) error {
	var c Course
	path := filepath.Join(dir, "course.json")
	if err := readJSON(path, &c); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return writeJSON(path, &c)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes via a temp file in the same directory and renames
// it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
