package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"floatplan/internal/model"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteRepository implements Repository on an embedded sqlite database.
// It is the default backend; an in-memory DSN keeps the service runnable
// with no external dependencies.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the sqlite database at the given DSN.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite")
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite pragmas")
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "apply schema")
	}
	return nil
}

func (r *SQLiteRepository) Close() {
	r.db.Close()
}

const timestampFormat = time.RFC3339Nano

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}
	}
	return d
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOpportunityRow(row rowScanner) (model.Opportunity, error) {
	var o model.Opportunity
	var liq sql.NullFloat64
	var maxCap, scaling sql.NullInt64
	var created, updated string

	err := row.Scan(&o.ID, &o.Name, &o.Category, &o.InitialInvestment, &o.ExpectedReturn,
		&o.TurnaroundDays, &o.TimeRequiredHours, &o.HourlyRate, &o.RiskFactor, &o.CertaintyScore,
		&o.IsRecurring, &liq, &maxCap, &scaling,
		&o.Impact, &o.Confidence, &o.Ease, &created, &updated)
	if err != nil {
		return model.Opportunity{}, err
	}
	o.LiquidationRisk = floatPtr(liq)
	o.MaxCapitalAllowed = int64Ptr(maxCap)
	o.ScalingLimit = intPtr(scaling)
	o.CreatedAt = parseTimestamp(created)
	o.UpdatedAt = parseTimestamp(updated)
	return o, nil
}

func (r *SQLiteRepository) CreateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO opportunities (name, category, initial_investment, expected_return,
			turnaround_days, time_required_hours, hourly_rate, risk_factor, certainty_score,
			is_recurring, liquidation_risk, max_capital_allowed, scaling_limit,
			impact, confidence, ease, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Name, o.Category, o.InitialInvestment, o.ExpectedReturn,
		o.TurnaroundDays, o.TimeRequiredHours, o.HourlyRate, o.RiskFactor, o.CertaintyScore,
		o.IsRecurring, nullFloat(o.LiquidationRisk), nullInt64(o.MaxCapitalAllowed), nullInt(o.ScalingLimit),
		o.Impact, o.Confidence, o.Ease, now.Format(timestampFormat), now.Format(timestampFormat))
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "insert opportunity")
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "insert opportunity id")
	}
	return o, nil
}

func (r *SQLiteRepository) GetOpportunity(ctx context.Context, id int64) (model.Opportunity, error) {
	o, err := scanOpportunityRow(r.db.QueryRowContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Opportunity{}, ErrNotFound
	}
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "get opportunity")
	}
	return o, nil
}

func (r *SQLiteRepository) ListOpportunities(ctx context.Context, category string) ([]model.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities ORDER BY id`
	args := []any{}
	if category != "" {
		query = `SELECT ` + opportunityColumns + ` FROM opportunities WHERE category = ? ORDER BY id`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list opportunities")
	}
	defer rows.Close()

	opps := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunityRow(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scan opportunity")
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (r *SQLiteRepository) UpdateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error) {
	o.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE opportunities SET name = ?, category = ?, initial_investment = ?,
			expected_return = ?, turnaround_days = ?, time_required_hours = ?,
			hourly_rate = ?, risk_factor = ?, certainty_score = ?, is_recurring = ?,
			liquidation_risk = ?, max_capital_allowed = ?, scaling_limit = ?,
			impact = ?, confidence = ?, ease = ?, updated_at = ?
		WHERE id = ?`,
		o.Name, o.Category, o.InitialInvestment,
		o.ExpectedReturn, o.TurnaroundDays, o.TimeRequiredHours,
		o.HourlyRate, o.RiskFactor, o.CertaintyScore, o.IsRecurring,
		nullFloat(o.LiquidationRisk), nullInt64(o.MaxCapitalAllowed), nullInt(o.ScalingLimit),
		o.Impact, o.Confidence, o.Ease, o.UpdatedAt.Format(timestampFormat), o.ID)
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "update opportunity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Opportunity{}, ErrNotFound
	}
	return r.GetOpportunity(ctx, o.ID)
}

func (r *SQLiteRepository) DeleteOpportunity(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "delete opportunity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccountRow(row rowScanner) (model.Account, error) {
	var a model.Account
	var stmtDay, dueDay sql.NullInt64
	var created string

	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.CreditLimit, &a.CurrentBalance, &a.APRPercent,
		&stmtDay, &dueDay, &a.AvailableCredit, &a.Notes, &created)
	if err != nil {
		return model.Account{}, err
	}
	a.StatementDay = intPtr(stmtDay)
	a.DueDay = intPtr(dueDay)
	a.CreatedAt = parseTimestamp(created)
	return a, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	a.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, credit_limit, current_balance, apr_percent,
			statement_day, due_day, available_credit, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Type, a.CreditLimit, a.CurrentBalance, a.APRPercent,
		nullInt(a.StatementDay), nullInt(a.DueDay), a.AvailableCredit, a.Notes,
		a.CreatedAt.Format(timestampFormat))
	if err != nil {
		return model.Account{}, eris.Wrap(err, "insert account")
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return model.Account{}, eris.Wrap(err, "insert account id")
	}
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	a, err := scanAccountRow(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, eris.Wrap(err, "get account")
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "list accounts")
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scan account")
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "delete account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateCreditCycle(ctx context.Context, c model.CreditCycle) (model.CreditCycle, error) {
	c.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_cycles (account_id, statement_start, statement_end,
			balance_at_statement, min_payment, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.AccountID, c.StatementStart.String(), c.StatementEnd.String(),
		c.BalanceAtStatement, c.MinPayment, c.DueDate.String(),
		c.CreatedAt.Format(timestampFormat))
	if err != nil {
		return model.CreditCycle{}, eris.Wrap(err, "insert credit cycle")
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return model.CreditCycle{}, eris.Wrap(err, "insert credit cycle id")
	}
	return c, nil
}

func (r *SQLiteRepository) ListCreditCycles(ctx context.Context, accountID int64) ([]model.CreditCycle, error) {
	query := `SELECT id, account_id, statement_start, statement_end,
			balance_at_statement, min_payment, due_date, created_at
		FROM credit_cycles ORDER BY statement_end`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, statement_start, statement_end,
				balance_at_statement, min_payment, due_date, created_at
			FROM credit_cycles WHERE account_id = ? ORDER BY statement_end`
		args = append(args, accountID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list credit cycles")
	}
	defer rows.Close()

	cycles := []model.CreditCycle{}
	for rows.Next() {
		var c model.CreditCycle
		var start, end, due, created string
		if err := rows.Scan(&c.ID, &c.AccountID, &start, &end,
			&c.BalanceAtStatement, &c.MinPayment, &due, &created); err != nil {
			return nil, eris.Wrap(err, "scan credit cycle")
		}
		c.StatementStart = parseDate(start)
		c.StatementEnd = parseDate(end)
		c.DueDate = parseDate(due)
		c.CreatedAt = parseTimestamp(created)
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (r *SQLiteRepository) CreateLimitWindow(ctx context.Context, w model.LimitWindow) (model.LimitWindow, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO limit_windows (account_id, start_date, end_date, available_amount, notes)
		VALUES (?, ?, ?, ?, ?)`,
		w.AccountID, w.StartDate.String(), w.EndDate.String(), w.AvailableAmount, w.Notes)
	if err != nil {
		return model.LimitWindow{}, eris.Wrap(err, "insert limit window")
	}
	w.ID, err = res.LastInsertId()
	if err != nil {
		return model.LimitWindow{}, eris.Wrap(err, "insert limit window id")
	}
	return w, nil
}

func (r *SQLiteRepository) ListLimitWindows(ctx context.Context, accountID int64) ([]model.LimitWindow, error) {
	query := `SELECT id, account_id, start_date, end_date, available_amount, notes
		FROM limit_windows ORDER BY start_date`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, start_date, end_date, available_amount, notes
			FROM limit_windows WHERE account_id = ? ORDER BY start_date`
		args = append(args, accountID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list limit windows")
	}
	defer rows.Close()

	windows := []model.LimitWindow{}
	for rows.Next() {
		var w model.LimitWindow
		var start, end string
		if err := rows.Scan(&w.ID, &w.AccountID, &start, &end, &w.AvailableAmount, &w.Notes); err != nil {
			return nil, eris.Wrap(err, "scan limit window")
		}
		w.StartDate = parseDate(start)
		w.EndDate = parseDate(end)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *SQLiteRepository) CreateCashflowEvent(ctx context.Context, e model.CashflowEvent) (model.CashflowEvent, error) {
	e.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cashflow_events (account_id, amount, kind, event_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullInt64(e.AccountID), e.Amount, e.Kind, e.Date.String(), e.Description,
		e.CreatedAt.Format(timestampFormat))
	if err != nil {
		return model.CashflowEvent{}, eris.Wrap(err, "insert cashflow event")
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return model.CashflowEvent{}, eris.Wrap(err, "insert cashflow event id")
	}
	return e, nil
}

func (r *SQLiteRepository) ListCashflowEvents(ctx context.Context, from, to model.Date) ([]model.CashflowEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, amount, kind, event_date, description, created_at
		FROM cashflow_events WHERE event_date >= ? AND event_date <= ?
		ORDER BY event_date, id`,
		from.String(), to.String())
	if err != nil {
		return nil, eris.Wrap(err, "list cashflow events")
	}
	defer rows.Close()

	events := []model.CashflowEvent{}
	for rows.Next() {
		var e model.CashflowEvent
		var accountID sql.NullInt64
		var day, created string
		if err := rows.Scan(&e.ID, &accountID, &e.Amount, &e.Kind, &day, &e.Description, &created); err != nil {
			return nil, eris.Wrap(err, "scan cashflow event")
		}
		e.AccountID = int64Ptr(accountID)
		e.Date = parseDate(day)
		e.CreatedAt = parseTimestamp(created)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteRepository) CreateLoanTerm(ctx context.Context, l model.LoanTerm) (model.LoanTerm, error) {
	l.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO loan_terms (account_id, principal, apr_percent, compounding_period,
			monthly_payment, term_months, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.AccountID, l.Principal, l.APRPercent, l.CompoundingPeriod,
		nullInt64(l.MonthlyPayment), nullInt(l.TermMonths),
		l.CreatedAt.Format(timestampFormat))
	if err != nil {
		return model.LoanTerm{}, eris.Wrap(err, "insert loan term")
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return model.LoanTerm{}, eris.Wrap(err, "insert loan term id")
	}
	return l, nil
}

func (r *SQLiteRepository) ListLoanTerms(ctx context.Context, accountID int64) ([]model.LoanTerm, error) {
	query := `SELECT id, account_id, principal, apr_percent, compounding_period,
			monthly_payment, term_months, created_at
		FROM loan_terms ORDER BY id`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, principal, apr_percent, compounding_period,
				monthly_payment, term_months, created_at
			FROM loan_terms WHERE account_id = ? ORDER BY id`
		args = append(args, accountID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list loan terms")
	}
	defer rows.Close()

	loans := []model.LoanTerm{}
	for rows.Next() {
		var l model.LoanTerm
		var payment, months sql.NullInt64
		var created string
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Principal, &l.APRPercent, &l.CompoundingPeriod,
			&payment, &months, &created); err != nil {
			return nil, eris.Wrap(err, "scan loan term")
		}
		l.MonthlyPayment = int64Ptr(payment)
		l.TermMonths = intPtr(months)
		l.CreatedAt = parseTimestamp(created)
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
