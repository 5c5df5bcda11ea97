package api

import (
	"net/http"
	"strconv"

	"floatplan/internal/database"
	"floatplan/internal/model"
	"floatplan/internal/scoring"
)

type opportunityMetrics struct {
	Opportunity model.Opportunity `json:"opportunity"`
	Metrics     scoring.Metrics   `json:"metrics"`
}

// handleListMetrics recomputes derived metrics for the stored pool on every
// read; nothing is cached.
func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("opportunity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			s.writeError(w, r, model.Validationf("opportunity_id", "invalid id %q", raw))
			return
		}
		o, err := s.repo.GetOpportunity(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, opportunityMetrics{Opportunity: o, Metrics: scoring.Compute(o)})
		return
	}

	opps, err := s.repo.ListOpportunities(r.Context(), "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]opportunityMetrics, len(opps))
	for i, o := range opps {
		out[i] = opportunityMetrics{Opportunity: o, Metrics: scoring.Compute(o)}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleExplainMetrics returns the full formula breakdown for one opportunity.
// Normalized scores are computed against the whole stored pool, the same pool
// the recommendations endpoint ranks.
func (s *Server) handleExplainMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := s.repo.GetOpportunity(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opps, err := s.repo.ListOpportunities(r.Context(), "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked, err := scoring.Rank(opps, scoring.ModeROI, s.weights())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, entry := range ranked {
		if entry.ID == id {
			s.writeJSON(w, http.StatusOK, scoring.Explain(o, entry, s.weights()))
			return
		}
	}
	s.writeError(w, r, database.ErrNotFound)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := scoring.ParseMode(q.Get("mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, r, model.Validationf("limit", "must be a non-negative integer, got %q", raw))
			return
		}
	}

	opps, err := s.repo.ListOpportunities(r.Context(), q.Get("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked, err := scoring.Rank(opps, mode, s.weights())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	s.writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleCompareModes(w http.ResponseWriter, r *http.Request) {
	opps, err := s.repo.ListOpportunities(r.Context(), "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cmp, err := scoring.CompareModes(opps, s.weights())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cmp)
}
