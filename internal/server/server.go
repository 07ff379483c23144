package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adaptived/cadence/internal/learning"
	"github.com/adaptived/cadence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the cadence HTTP API server.
type Server struct {
	engine  *learning.Engine
	db      *store.DB
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server around the learning engine. db may be nil when
// the engine runs without durable storage (tests).
func New(engine *learning.Engine, db *store.DB, version string) *Server {
	s := &Server{
		engine:  engine,
		db:      db,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Ingestion
		r.Post("/interactions", s.handleLogInteraction)
		r.Get("/interactions", s.handleRecentInteractions)

		// Decision query
		r.Post("/patterns/apply", s.handleApplyPatterns)

		// Transparency
		r.Get("/patterns", s.handlePatterns)
		r.Get("/hypotheses", s.handleHypotheses)
		r.Get("/learnings", s.handleLearnings)

		// Lifecycle
		r.Delete("/patterns/{patternID}", s.handleRemovePattern)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{notificationID}/dismiss", s.handleDismissNotification)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	dbPath := ""
	if s.db != nil {
		dbPath = s.db.Path
		if err := s.db.Ping(); err != nil {
			dbOK = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": dbPath,
	})
}
