// Package api exposes the course generation pipeline over HTTP: course
// creation, the three generation stages, artifact retrieval and edits,
// and DOCX export.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nmehta/coursegen/internal/config"
	"github.com/nmehta/coursegen/internal/llm"
	"github.com/nmehta/coursegen/internal/pipeline"
	"github.com/nmehta/coursegen/internal/store"
	"github.com/nmehta/coursegen/internal/syllabus"
)

// Server is the HTTP API server for coursegen.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	st           *store.Store
	extractor    *syllabus.Extractor
	stats        *llm.Stats
	provider     string
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, st *store.Store, stats *llm.Stats, provider string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		st:           st,
		extractor:    &syllabus.Extractor{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		stats:        stats,
		provider:     provider,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/courses", s.handleCreateCourse)
		r.Get("/api/courses", s.handleListCourses)
		r.Get("/api/courses/{courseID}", s.handleGetCourse)

		r.Get("/api/courses/{courseID}/roadmap", s.handleGetRoadmap)
		r.Put("/api/courses/{courseID}/roadmap", s.handlePutRoadmap)

		r.Post("/api/courses/{courseID}/plan", s.handleGeneratePlan)
		r.Get("/api/courses/{courseID}/plan", s.handleGetPlan)
		r.Put("/api/courses/{courseID}/plan", s.handlePutPlan)
		r.Get("/api/courses/{courseID}/plan/download", s.handleDownloadPlan)

		r.Post("/api/courses/{courseID}/notes", s.handleGenerateNotes)
		r.Get("/api/courses/{courseID}/notes", s.handleGetNotes)
		r.Get("/api/courses/{courseID}/notes/download", s.handleDownloadNotes)

		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
