package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nmehta/coursegen/internal/outline"
	"github.com/nmehta/coursegen/internal/pipeline"
	"github.com/nmehta/coursegen/internal/render"
	"github.com/nmehta/coursegen/internal/store"
	"github.com/nmehta/coursegen/internal/topictree"
)

const maxArtifactBody = 16 << 20

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	text, err := s.st.Roadmap(course.ID)
	if err != nil {
		s.artifactError(w, "roadmap", err)
		return
	}
	res := outline.Parse(text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"course_id": course.ID,
		"roadmap":   text,
		"sequence":  res.Sequence,
		"topics":    len(res.Topics),
		"warnings":  res.Warnings,
	})
}

// handlePutRoadmap replaces the stored outline with an edited one. The
// text must still parse to at least one topic, otherwise the later
// stages would have nothing to walk.
func (s *Server) handlePutRoadmap(w http.ResponseWriter, r *http.Request) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxArtifactBody))
	if err != nil {
		jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	res := outline.Parse(string(body))
	if len(res.Topics) == 0 {
		jsonError(w, "roadmap contains no parseable topic lines", http.StatusUnprocessableEntity)
		return
	}
	if err := s.st.SaveRoadmap(course.ID, string(body)); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"course_id": course.ID,
		"topics":    len(res.Topics),
		"warnings":  res.Warnings,
	})
}

// handleGeneratePlan queues the lesson-plan stage. The request body may
// carry a sampling temperature override.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Temperature float32 `json:"temperature"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if !validTemperature(req.Temperature) {
		jsonError(w, "temperature must be between 0.0 and 1.0", http.StatusBadRequest)
		return
	}
	s.submitStage(w, r, pipeline.StagePlan, pipeline.JobOptions{Temperature: req.Temperature})
}

// validTemperature bounds the sampling override. Zero means "use the
// stage default".
func validTemperature(t float32) bool {
	return t >= 0 && t <= 1
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	s.serveSnapshot(w, r, "plan")
}

// handlePutPlan applies content edits from a client-modified snapshot
// onto the stored plan, matching nodes by topic id. Unknown ids are
// reported back, not silently dropped.
func (s *Server) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxArtifactBody))
	if err != nil {
		jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	edited, err := topictree.UnmarshalSnapshot(body)
	if err != nil {
		jsonError(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := s.st.Plan(course.ID)
	if err != nil {
		s.artifactError(w, "plan", err)
		return
	}
	unmatched := snap.ApplyEdits(edited)
	if err := s.st.SavePlan(course.ID, snap); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"course_id":     course.ID,
		"unmatched_ids": unmatched,
	})
}

func (s *Server) handleDownloadPlan(w http.ResponseWriter, r *http.Request) {
	s.serveDocx(w, r, "plan", "lesson_plan")
}

// handleGenerateNotes queues the lecture-notes stage. The request body
// may carry topic ids to highlight with extra worked examples, either as
// a JSON array or as a comma-separated string, plus a temperature
// override.
func (s *Server) handleGenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Highlighted       []string `json:"highlighted"`
		HighlightedTopics string   `json:"highlighted_topics"`
		Temperature       float32  `json:"temperature"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if !validTemperature(req.Temperature) {
		jsonError(w, "temperature must be between 0.0 and 1.0", http.StatusBadRequest)
		return
	}
	highlighted := req.Highlighted
	for _, id := range strings.Split(req.HighlightedTopics, ",") {
		if id = strings.TrimSpace(id); id != "" {
			highlighted = append(highlighted, id)
		}
	}
	s.submitStage(w, r, pipeline.StageNotes, pipeline.JobOptions{
		Highlighted: highlighted,
		Temperature: req.Temperature,
	})
}

func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	s.serveSnapshot(w, r, "notes")
}

func (s *Server) handleDownloadNotes(w http.ResponseWriter, r *http.Request) {
	s.serveDocx(w, r, "notes", "lecture_notes")
}

func (s *Server) submitStage(w http.ResponseWriter, r *http.Request, stage pipeline.Stage, opts pipeline.JobOptions) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	if msg, ok := s.stagePrereq(course.ID, stage); !ok {
		jsonError(w, msg, http.StatusConflict)
		return
	}
	job, err := s.orchestrator.Submit(course.ID, stage, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"course_id": course.ID,
		"job_id":    job.ID,
		"stage":     job.Stage,
		"poll_url":  fmt.Sprintf("/api/jobs/%s/status", job.ID),
	})
}

// stagePrereq rejects a stage whose input artifact is missing, so a
// client cannot queue lesson plans before a roadmap exists. The worker
// re-checks, but catching it here gives an immediate answer instead of
// a failed job.
func (s *Server) stagePrereq(courseID string, stage pipeline.Stage) (string, bool) {
	arts, err := s.st.HasArtifacts(courseID)
	if err != nil {
		return err.Error(), false
	}
	switch stage {
	case pipeline.StagePlan:
		if !arts.Roadmap {
			return "roadmap not generated yet", false
		}
	case pipeline.StageNotes:
		if !arts.Plan {
			return "lesson plan not generated yet", false
		}
	}
	return "", true
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request, kind string) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	snap, err := s.loadSnapshot(course.ID, kind)
	if err != nil {
		s.artifactError(w, kind, err)
		return
	}
	data, err := snap.Marshal()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// serveDocx renders the stored snapshot to a Word document on the fly,
// so downloads always reflect the latest edits.
func (s *Server) serveDocx(w http.ResponseWriter, r *http.Request, kind, filePrefix string) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	snap, err := s.loadSnapshot(course.ID, kind)
	if err != nil {
		s.artifactError(w, kind, err)
		return
	}

	sink := render.NewDocxSink()
	render.Tree(sink, snap.Topics, 0)

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.docx"`, filePrefix, course.ID))
	if err := sink.Save(w); err != nil {
		s.log.Error("docx write failed", "course_id", course.ID, "kind", kind, "error", err)
	}
}

func (s *Server) loadSnapshot(courseID, kind string) (*topictree.Snapshot, error) {
	if kind == "plan" {
		return s.st.Plan(courseID)
	}
	return s.st.Notes(courseID)
}

func (s *Server) artifactError(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, kind+" not generated yet", http.StatusNotFound)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}
