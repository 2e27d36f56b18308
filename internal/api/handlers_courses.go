package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nmehta/coursegen/internal/pipeline"
	"github.com/nmehta/coursegen/internal/store"
	"github.com/nmehta/coursegen/internal/syllabus"
)

// handleCreateCourse accepts a multipart form with the course subject,
// difficulty, a syllabus file and an optional reference file. Text is
// extracted up front; the roadmap stage is queued immediately.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	subject := strings.TrimSpace(r.FormValue("subject"))
	if subject == "" {
		jsonError(w, "subject is required", http.StatusBadRequest)
		return
	}
	difficulty := strings.TrimSpace(r.FormValue("difficulty"))
	if difficulty == "" {
		difficulty = "intermediate"
	}

	syllabusText, err := s.formFileText(r, "syllabus", s.cfg.MaxSyllabusTokens)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if syllabusText == "" {
		// Inline text is accepted as an alternative to a file.
		syllabusText = strings.TrimSpace(r.FormValue("syllabus_text"))
	}
	if syllabusText == "" {
		jsonError(w, "syllabus file or syllabus_text is required", http.StatusBadRequest)
		return
	}
	syllabusText = syllabus.Truncate(syllabusText, s.cfg.MaxSyllabusTokens)

	referenceText, err := s.formFileText(r, "reference", s.cfg.MaxReferenceTokens)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	course := &store.Course{
		ID:            pipeline.NewID(),
		Subject:       subject,
		Difficulty:    difficulty,
		SyllabusText:  syllabusText,
		ReferenceText: referenceText,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.st.CreateCourse(course); err != nil {
		jsonError(w, "create course: "+err.Error(), http.StatusInternalServerError)
		return
	}

	job, err := s.orchestrator.Submit(course.ID, pipeline.StageRoadmap, pipeline.JobOptions{})
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

// formFileText extracts plain text from an optional uploaded file.
// Returns "" when the field is absent.
func (s *Server) formFileText(r *http.Request, field string, maxTokens int) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %s", field, err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !syllabus.IsSupported(filename) {
		return "", fmt.Errorf("%s: unsupported file type %s", field, filepath.Ext(filename))
	}
	data, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		return "", fmt.Errorf("%s: %s", field, err)
	}
	text, err := s.extractor.Extract(data, filename)
	if err != nil {
		return "", fmt.Errorf("%s: %s", field, err)
	}
	return syllabus.Truncate(strings.TrimSpace(text), maxTokens), nil
}

func readLimited(file multipart.File, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read failed: %s", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", maxBytes)
	}
	return data, nil
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.st.ListCourses()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]map[string]any, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseJSON(c))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"courses": out})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := s.loadCourse(w, r)
	if !ok {
		return
	}
	out := courseJSON(course)
	if arts, err := s.st.HasArtifacts(course.ID); err == nil {
		out["artifacts"] = arts
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// courseJSON omits the extracted text blobs, which can be large.
func courseJSON(c *store.Course) map[string]any {
	return map[string]any{
		"course_id":     c.ID,
		"subject":       c.Subject,
		"difficulty":    c.Difficulty,
		"has_reference": c.ReferenceText != "",
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
}

func (s *Server) loadCourse(w http.ResponseWriter, r *http.Request) (*store.Course, bool) {
	courseID := chi.URLParam(r, "courseID")
	course, err := s.st.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "course not found", http.StatusNotFound)
		} else {
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return course, true
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
