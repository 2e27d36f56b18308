package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nmehta/coursegen/internal/generate"
	"github.com/nmehta/coursegen/internal/llm"
	"github.com/nmehta/coursegen/internal/outline"
	"github.com/nmehta/coursegen/internal/prompt"
	"github.com/nmehta/coursegen/internal/store"
	"github.com/nmehta/coursegen/internal/topictree"
)

// Worker processes a single generation job end to end.
//
// The roadmap stage is a single hard-stop call, so transient provider
// errors are retried there. Per-node calls in the later stages are not
// retried: a failed node is recorded and the walk continues.
type Worker struct {
	gen   *generate.Generator
	gw    llm.Gateway
	cache *llm.Cache
	st    *store.Store
	log   *slog.Logger
}

func NewWorker(gw llm.Gateway, cache *llm.Cache, st *store.Store, log *slog.Logger) *Worker {
	return &Worker{
		gen:   generate.New(gw, cache, log),
		gw:    WithRetries(gw, log),
		cache: cache,
		st:    st,
		log:   log,
	}
}

// Process runs one stage for a course and persists the result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "course_id", job.CourseID, "stage", job.Stage)
	job.SetStatus(StatusRunning)

	var failures []generate.NodeFailure
	var err error
	switch job.Stage {
	case StageRoadmap:
		err = w.roadmap(ctx, job)
	case StagePlan:
		failures, err = w.plan(ctx, job)
	case StageNotes:
		failures, err = w.notes(ctx, job)
	default:
		err = fmt.Errorf("unknown stage %q", job.Stage)
	}

	if err != nil {
		log.Error("stage failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed)
		return
	}
	for _, f := range failures {
		job.AddError(fmt.Sprintf("node %s: %s", f.NodeID, f.Cause))
	}
	if len(failures) > 0 {
		log.Warn("stage finished with node failures", "failed_nodes", len(failures))
		job.SetStatus(StatusPartial)
		return
	}
	log.Info("stage completed")
	job.SetStatus(StatusCompleted)
}

// roadmap generates the topic outline from the syllabus and stores the
// raw text. The outline must parse to at least one topic.
func (w *Worker) roadmap(ctx context.Context, job *Job) error {
	course, err := w.st.GetCourse(job.CourseID)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}

	p := prompt.Roadmap(course.Subject, course.SyllabusText, course.Difficulty)
	text, err := w.cache.GetOrGenerate(p, func() (string, error) {
		return w.gw.Generate(ctx, llm.Request{
			Prompt:      p,
			Temperature: stageTemperature(job, prompt.DefaultRoadmapTemperature),
		})
	})
	if err != nil {
		return fmt.Errorf("generate roadmap: %w", err)
	}

	res := outline.Parse(text)
	if len(res.Topics) == 0 {
		return fmt.Errorf("model output contained no parseable topic lines")
	}
	for _, warn := range res.Warnings {
		w.log.Warn("outline warning", "course_id", job.CourseID, "line", warn.Line, "reason", warn.Reason)
	}

	if err := w.st.SaveRoadmap(job.CourseID, text); err != nil {
		return fmt.Errorf("save roadmap: %w", err)
	}
	job.SetProgress(1.0)
	return nil
}

// plan parses the stored roadmap into a topic forest and fills every
// node with lesson-plan content.
func (w *Worker) plan(ctx context.Context, job *Job) ([]generate.NodeFailure, error) {
	course, err := w.st.GetCourse(job.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	roadmapText, err := w.st.Roadmap(job.CourseID)
	if err != nil {
		return nil, fmt.Errorf("roadmap not generated yet: %w", err)
	}

	res := outline.Parse(roadmapText)
	if len(res.Topics) == 0 {
		return nil, fmt.Errorf("stored roadmap contains no topics")
	}

	failures := w.gen.LessonPlan(ctx, res.Topics, generate.PlanRequest{
		Subject:     course.Subject,
		Difficulty:  course.Difficulty,
		Temperature: stageTemperature(job, prompt.DefaultLessonTemperature),
		Progress:    job.SetProgress,
	})

	snap := &topictree.Snapshot{
		Subject:    course.Subject,
		Difficulty: course.Difficulty,
		Topics:     res.Topics,
	}
	if err := w.st.SavePlan(job.CourseID, snap); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return failures, nil
}

// notes expands the stored lesson plan into full lecture notes.
func (w *Worker) notes(ctx context.Context, job *Job) ([]generate.NodeFailure, error) {
	course, err := w.st.GetCourse(job.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	plan, err := w.st.Plan(job.CourseID)
	if err != nil {
		return nil, fmt.Errorf("lesson plan not generated yet: %w", err)
	}

	notes, failures := w.gen.LectureNotes(ctx, plan.Topics, generate.NotesRequest{
		Subject:     course.Subject,
		Difficulty:  course.Difficulty,
		Highlighted: job.Highlighted,
		Reference:   course.ReferenceText,
		Temperature: stageTemperature(job, prompt.DefaultNotesTemperature),
		Progress:    job.SetProgress,
	})

	snap := &topictree.Snapshot{
		Subject:    course.Subject,
		Difficulty: course.Difficulty,
		Topics:     notes,
	}
	if err := w.st.SaveNotes(job.CourseID, snap); err != nil {
		return nil, fmt.Errorf("save notes: %w", err)
	}
	return failures, nil
}

func stageTemperature(job *Job, fallback float32) float32 {
	if job.Temperature > 0 {
		return job.Temperature
	}
	return fallback
}
