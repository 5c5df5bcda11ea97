package api

import (
	"net/http"

	"floatplan/internal/model"
)

func validateAccount(a model.Account) error {
	if a.Name == "" {
		return model.Validationf("name", "must not be empty")
	}
	if !model.ValidAccountType(a.Type) {
		return model.Validationf("type", "unknown account type %q", a.Type)
	}
	if a.CreditLimit < 0 {
		return model.Validationf("credit_limit", "must be >= 0, got %d", a.CreditLimit)
	}
	if a.APRPercent < 0 {
		return model.Validationf("apr_percent", "must be >= 0, got %g", a.APRPercent)
	}
	for _, f := range []struct {
		name string
		v    *int
	}{{"statement_day", a.StatementDay}, {"due_day", a.DueDay}} {
		if f.v != nil && (*f.v < 1 || *f.v > 31) {
			return model.Validationf(f.name, "must be in [1,31], got %d", *f.v)
		}
	}
	return nil
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := decodeBody(r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateAccount(a); err != nil {
		s.writeError(w, r, err)
		return
	}
	// For revolving accounts the usable headroom defaults to limit minus
	// balance unless stated explicitly.
	if a.AvailableCredit == 0 && a.CreditLimit > 0 {
		a.AvailableCredit = a.CreditLimit - a.CurrentBalance
		if a.AvailableCredit < 0 {
			a.AvailableCredit = 0
		}
	}

	created, err := s.repo.CreateAccount(r.Context(), a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.repo.GetAccount(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repo.DeleteAccount(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// accountFromPath resolves the {id} path parameter to a stored account.
func (s *Server) accountFromPath(r *http.Request) (model.Account, error) {
	id, err := idParam(r)
	if err != nil {
		return model.Account{}, err
	}
	return s.repo.GetAccount(r.Context(), id)
}

func (s *Server) handleCreateCreditCycle(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var c model.CreditCycle
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	c.AccountID = account.ID

	switch {
	case c.StatementStart.IsZero() || c.StatementEnd.IsZero():
		err = model.Validationf("statement_start", "statement dates are required")
	case c.StatementEnd.Before(c.StatementStart):
		err = model.Validationf("statement_end", "must not precede statement_start")
	case c.DueDate.IsZero():
		err = model.Validationf("due_date", "is required")
	case c.DueDate.Before(c.StatementEnd):
		err = model.Validationf("due_date", "must not precede statement_end")
	case c.MinPayment < 0:
		err = model.Validationf("min_payment", "must be >= 0, got %d", c.MinPayment)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateCreditCycle(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCreditCycles(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cycles, err := s.repo.ListCreditCycles(r.Context(), account.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cycles)
}

func (s *Server) handleCreateLimitWindow(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var win model.LimitWindow
	if err := decodeBody(r, &win); err != nil {
		s.writeError(w, r, err)
		return
	}
	win.AccountID = account.ID

	switch {
	case win.StartDate.IsZero() || win.EndDate.IsZero():
		err = model.Validationf("start_date", "window dates are required")
	case win.EndDate.Before(win.StartDate):
		err = model.Validationf("end_date", "must not precede start_date")
	case win.AvailableAmount < 0:
		err = model.Validationf("available_amount", "must be >= 0, got %d", win.AvailableAmount)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateLimitWindow(r.Context(), win)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListLimitWindows(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	windows, err := s.repo.ListLimitWindows(r.Context(), account.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, windows)
}

func (s *Server) handleCreateLoanTerm(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var l model.LoanTerm
	if err := decodeBody(r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	l.AccountID = account.ID
	if l.CompoundingPeriod == "" {
		l.CompoundingPeriod = "daily"
	}

	switch {
	case l.Principal <= 0:
		err = model.Validationf("principal", "must be > 0, got %d", l.Principal)
	case l.APRPercent < 0:
		err = model.Validationf("apr_percent", "must be >= 0, got %g", l.APRPercent)
	case l.MonthlyPayment != nil && *l.MonthlyPayment <= 0:
		err = model.Validationf("monthly_payment", "must be > 0, got %d", *l.MonthlyPayment)
	case l.TermMonths != nil && *l.TermMonths <= 0:
		err = model.Validationf("term_months", "must be > 0, got %d", *l.TermMonths)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateLoanTerm(r.Context(), l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListLoanTerms(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loans, err := s.repo.ListLoanTerms(r.Context(), account.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loans)
}
