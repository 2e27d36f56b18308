package pipeline

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Stage names one step of the course generation pipeline.
type Stage string

const (
	StageRoadmap Stage = "roadmap"
	StagePlan    Stage = "lesson_plan"
	StageNotes   Stage = "lecture_notes"
)

// JobStatus represents the state of a generation job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one asynchronous generation run for a course stage.
type Job struct {
	mu sync.Mutex

	ID       string
	CourseID string
	Stage    Stage

	// Highlighted marks topic ids whose lecture notes should carry
	// worked numerical examples. Only meaningful for StageNotes.
	Highlighted []string

	// Temperature overrides the stage default when > 0.
	Temperature float32

	status    JobStatus
	progress  float64
	errors    []string
	createdAt time.Time
	updatedAt time.Time
}

// JobOptions are the per-job knobs a caller may set on submit.
type JobOptions struct {
	Highlighted []string
	Temperature float32
}

func newJob(courseID string, stage Stage, opts JobOptions) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          NewID(),
		CourseID:    courseID,
		Stage:       stage,
		Highlighted: opts.Highlighted,
		Temperature: opts.Temperature,
		status:      StatusQueued,
		createdAt:   now,
		updatedAt:   now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.updatedAt = time.Now().UTC()
}

// SetProgress records the visited fraction. Progress never moves
// backwards.
func (j *Job) SetProgress(f float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if f > j.progress {
		j.progress = f
	}
	j.updatedAt = time.Now().UTC()
}

// AddError records a non-fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.updatedAt = time.Now().UTC()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	CourseID  string    `json:"course_id"`
	Stage     Stage     `json:"stage"`
	Status    JobStatus `json:"status"`
	Progress  float64   `json:"progress"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:        j.ID,
		CourseID:  j.CourseID,
		Stage:     j.Stage,
		Status:    j.status,
		Progress:  j.progress,
		Errors:    errs,
		CreatedAt: j.createdAt,
		UpdatedAt: j.updatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry. Finished jobs age
// out after the TTL.
type JobStore struct {
	jobs *expirable.LRU[string, *Job]
}

const maxTrackedJobs = 4096

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: expirable.NewLRU[string, *Job](maxTrackedJobs, nil, ttl),
	}
}

func (s *JobStore) Put(job *Job) {
	s.jobs.Add(job.ID, job)
}

func (s *JobStore) Get(id string) *Job {
	job, ok := s.jobs.Get(id)
	if !ok {
		return nil
	}
	return job
}
