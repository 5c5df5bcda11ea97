// Package database holds plain storage for floatplan records. No business
// logic lives here: metrics, scores and simulations are computed in process by
// the scoring and finance packages, and the database stores raw rows only.
package database

import (
	"context"

	"github.com/rotisserie/eris"

	"floatplan/internal/finance"
	"floatplan/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = eris.New("not found")

// Repository defines the standard interface for database operations.
// Two backends implement it: postgres (pgx) and sqlite (modernc).
type Repository interface {
	Migrate(ctx context.Context) error
	Close()

	CreateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error)
	GetOpportunity(ctx context.Context, id int64) (model.Opportunity, error)
	ListOpportunities(ctx context.Context, category string) ([]model.Opportunity, error)
	UpdateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error)
	DeleteOpportunity(ctx context.Context, id int64) error

	CreateAccount(ctx context.Context, a model.Account) (model.Account, error)
	GetAccount(ctx context.Context, id int64) (model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	CreateCreditCycle(ctx context.Context, c model.CreditCycle) (model.CreditCycle, error)
	ListCreditCycles(ctx context.Context, accountID int64) ([]model.CreditCycle, error)

	CreateLimitWindow(ctx context.Context, w model.LimitWindow) (model.LimitWindow, error)
	ListLimitWindows(ctx context.Context, accountID int64) ([]model.LimitWindow, error)

	CreateCashflowEvent(ctx context.Context, e model.CashflowEvent) (model.CashflowEvent, error)
	ListCashflowEvents(ctx context.Context, from, to model.Date) ([]model.CashflowEvent, error)

	CreateLoanTerm(ctx context.Context, l model.LoanTerm) (model.LoanTerm, error)
	ListLoanTerms(ctx context.Context, accountID int64) ([]model.LoanTerm, error)
}

// LoadSnapshot fetches the immutable record set a simulation computes over.
// Everything is read up front; the engines never go back to storage
// mid-computation.
func LoadSnapshot(ctx context.Context, r Repository, from, to model.Date) (finance.Snapshot, error) {
	var snap finance.Snapshot
	var err error

	if snap.Opportunities, err = r.ListOpportunities(ctx, ""); err != nil {
		return snap, eris.Wrap(err, "snapshot: opportunities")
	}
	if snap.Accounts, err = r.ListAccounts(ctx); err != nil {
		return snap, eris.Wrap(err, "snapshot: accounts")
	}
	if snap.Cycles, err = r.ListCreditCycles(ctx, 0); err != nil {
		return snap, eris.Wrap(err, "snapshot: credit cycles")
	}
	if snap.Windows, err = r.ListLimitWindows(ctx, 0); err != nil {
		return snap, eris.Wrap(err, "snapshot: limit windows")
	}
	if snap.Events, err = r.ListCashflowEvents(ctx, from, to); err != nil {
		return snap, eris.Wrap(err, "snapshot: cashflow events")
	}
	if snap.Loans, err = r.ListLoanTerms(ctx, 0); err != nil {
		return snap, eris.Wrap(err, "snapshot: loan terms")
	}
	return snap, nil
}
