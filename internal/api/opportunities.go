package api

import (
	"net/http"

	"floatplan/internal/model"
	"floatplan/internal/scoring"
)

// applyOpportunityDefaults fills unset ICE factors with the midpoint so a
// record created without them still ranks in ice mode.
func applyOpportunityDefaults(o *model.Opportunity) {
	if o.Impact == 0 {
		o.Impact = 5
	}
	if o.Confidence == 0 {
		o.Confidence = 5
	}
	if o.Ease == 0 {
		o.Ease = 5
	}
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var o model.Opportunity
	if err := decodeBody(r, &o); err != nil {
		s.writeError(w, r, err)
		return
	}
	applyOpportunityDefaults(&o)
	if err := scoring.Validate(o); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateOpportunity(r.Context(), o)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := s.repo.ListOpportunities(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, opps)
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
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
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleUpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var o model.Opportunity
	if err := decodeBody(r, &o); err != nil {
		s.writeError(w, r, err)
		return
	}
	o.ID = id
	applyOpportunityDefaults(&o)
	if err := scoring.Validate(o); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.repo.UpdateOpportunity(r.Context(), o)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repo.DeleteOpportunity(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
