package api

import (
	"net/http"

	"floatplan/internal/model"
)

func (s *Server) handleCreateCashflowEvent(w http.ResponseWriter, r *http.Request) {
	var e model.CashflowEvent
	if err := decodeBody(r, &e); err != nil {
		s.writeError(w, r, err)
		return
	}

	var err error
	switch {
	case e.Amount <= 0:
		err = model.Validationf("amount", "must be > 0, got %d", e.Amount)
	case e.Kind != model.CashflowInflow && e.Kind != model.CashflowOutflow:
		err = model.Validationf("kind", "must be %q or %q, got %q",
			model.CashflowInflow, model.CashflowOutflow, e.Kind)
	case e.Date.IsZero():
		err = model.Validationf("date", "is required")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if e.AccountID != nil {
		if _, err := s.repo.GetAccount(r.Context(), *e.AccountID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	created, err := s.repo.CreateCashflowEvent(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCashflowEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := model.Today()
	if raw := q.Get("from"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, model.Validationf("from", "%v", err))
			return
		}
		from = parsed
	}

	to := from.AddDays(s.cfg.Simulation.DefaultDays)
	if raw := q.Get("to"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, model.Validationf("to", "%v", err))
			return
		}
		to = parsed
	}

	if to.Before(from) {
		s.writeError(w, r, model.Validationf("to", "must not precede from"))
		return
	}

	events, err := s.repo.ListCashflowEvents(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}
