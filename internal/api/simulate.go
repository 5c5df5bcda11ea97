package api

import (
	"net/http"

	"floatplan/internal/database"
	"floatplan/internal/finance"
	"floatplan/internal/model"
)

// handleSimulate runs a liquidity simulation over the stored records. The
// snapshot is read once up front; the engine itself never touches storage.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in model.SimulationInput
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if in.StartDate.IsZero() {
		in.StartDate = model.Today()
	}
	if in.EndDate.IsZero() {
		in.EndDate = in.StartDate.AddDays(s.cfg.Simulation.DefaultDays)
	}

	var err error
	switch {
	case in.EndDate.Before(in.StartDate):
		err = model.Validationf("end_date", "must not precede start_date")
	case in.StartDate.DaysUntil(in.EndDate) > s.cfg.Simulation.MaxDays:
		err = model.Validationf("end_date", "simulation window exceeds %d days", s.cfg.Simulation.MaxDays)
	case in.AvailableCash < 0:
		err = model.Validationf("available_cash", "must be >= 0, got %d", in.AvailableCash)
	case in.OrganicSpend < 0:
		err = model.Validationf("organic_spend", "must be >= 0, got %d", in.OrganicSpend)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := database.LoadSnapshot(r.Context(), s.repo, in.StartDate, in.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := finance.Simulate(in, snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
