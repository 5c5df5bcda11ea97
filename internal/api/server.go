// Package api exposes the floatplan engines over HTTP. Handlers stay thin:
// they validate input, call the repository and the scoring/finance packages,
// and translate errors onto status codes.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"floatplan/internal/config"
	"floatplan/internal/database"
	"floatplan/internal/scoring"
)

// Server wires the HTTP routes to a repository and the engine configuration.
type Server struct {
	repo database.Repository
	cfg  config.Config
	log  *slog.Logger
}

// NewServer builds a Server. The logger must be non-nil.
func NewServer(repo database.Repository, cfg config.Config, log *slog.Logger) *Server {
	return &Server{repo: repo, cfg: cfg, log: log}
}

// weights materializes the configured scoring weights.
func (s *Server) weights() scoring.Weights {
	return scoring.Weights{
		ROI:       s.cfg.Scoring.ROIWeight,
		Cost:      s.cfg.Scoring.CostWeight,
		Certainty: s.cfg.Scoring.CertaintyWeight,
		ICEBlend:  s.cfg.Scoring.ICEBlend,
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/opportunities", func(r chi.Router) {
			r.Post("/", s.handleCreateOpportunity)
			r.Get("/", s.handleListOpportunities)
			r.Get("/{id}", s.handleGetOpportunity)
			r.Put("/{id}", s.handleUpdateOpportunity)
			r.Delete("/{id}", s.handleDeleteOpportunity)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleCreateAccount)
			r.Get("/", s.handleListAccounts)
			r.Get("/{id}", s.handleGetAccount)
			r.Delete("/{id}", s.handleDeleteAccount)

			r.Post("/{id}/cycles", s.handleCreateCreditCycle)
			r.Get("/{id}/cycles", s.handleListCreditCycles)
			r.Post("/{id}/windows", s.handleCreateLimitWindow)
			r.Get("/{id}/windows", s.handleListLimitWindows)
			r.Post("/{id}/loan-terms", s.handleCreateLoanTerm)
			r.Get("/{id}/loan-terms", s.handleListLoanTerms)
		})

		r.Post("/cashflow-events", s.handleCreateCashflowEvent)
		r.Get("/cashflow-events", s.handleListCashflowEvents)

		r.Get("/metrics", s.handleListMetrics)
		r.Get("/metrics/debug/{id}", s.handleExplainMetrics)

		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/recommendations/compare", s.handleCompareModes)

		r.Post("/simulate", s.handleSimulate)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
