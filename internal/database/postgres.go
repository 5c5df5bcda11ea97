package database

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"floatplan/internal/model"
)

//go:embed schema_postgres.sql
var postgresSchema string

// pgxPool is the slice of pgxpool.Pool the repository uses. Tests substitute
// a pgxmock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRepository implements Repository on top of a pgx connection pool.
type PostgresRepository struct {
	pool pgxPool
}

// NewPostgres connects a pool to the given DSN.
func NewPostgres(ctx context.Context, dsn string, maxConns, minConns int32) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "parse postgres dsn")
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "ping postgres")
	}
	return &PostgresRepository{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool pgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return eris.Wrap(err, "apply schema")
	}
	return nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

const opportunityColumns = `id, name, category, initial_investment, expected_return,
	turnaround_days, time_required_hours, hourly_rate, risk_factor, certainty_score,
	is_recurring, liquidation_risk, max_capital_allowed, scaling_limit,
	impact, confidence, ease, created_at, updated_at`

func scanOpportunity(row pgx.Row) (model.Opportunity, error) {
	var o model.Opportunity
	err := row.Scan(&o.ID, &o.Name, &o.Category, &o.InitialInvestment, &o.ExpectedReturn,
		&o.TurnaroundDays, &o.TimeRequiredHours, &o.HourlyRate, &o.RiskFactor, &o.CertaintyScore,
		&o.IsRecurring, &o.LiquidationRisk, &o.MaxCapitalAllowed, &o.ScalingLimit,
		&o.Impact, &o.Confidence, &o.Ease, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *PostgresRepository) CreateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	err := r.pool.QueryRow(ctx,
		`INSERT INTO opportunities (name, category, initial_investment, expected_return,
			turnaround_days, time_required_hours, hourly_rate, risk_factor, certainty_score,
			is_recurring, liquidation_risk, max_capital_allowed, scaling_limit,
			impact, confidence, ease, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		o.Name, o.Category, o.InitialInvestment, o.ExpectedReturn,
		o.TurnaroundDays, o.TimeRequiredHours, o.HourlyRate, o.RiskFactor, o.CertaintyScore,
		o.IsRecurring, o.LiquidationRisk, o.MaxCapitalAllowed, o.ScalingLimit,
		o.Impact, o.Confidence, o.Ease, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "insert opportunity")
	}
	return o, nil
}

func (r *PostgresRepository) GetOpportunity(ctx context.Context, id int64) (model.Opportunity, error) {
	o, err := scanOpportunity(r.pool.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Opportunity{}, ErrNotFound
	}
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "get opportunity")
	}
	return o, nil
}

func (r *PostgresRepository) ListOpportunities(ctx context.Context, category string) ([]model.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities ORDER BY id`
	args := []any{}
	if category != "" {
		query = `SELECT ` + opportunityColumns + ` FROM opportunities WHERE category = $1 ORDER BY id`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list opportunities")
	}
	defer rows.Close()

	opps := []model.Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scan opportunity")
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (r *PostgresRepository) UpdateOpportunity(ctx context.Context, o model.Opportunity) (model.Opportunity, error) {
	o.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx,
		`UPDATE opportunities SET name = $1, category = $2, initial_investment = $3,
			expected_return = $4, turnaround_days = $5, time_required_hours = $6,
			hourly_rate = $7, risk_factor = $8, certainty_score = $9, is_recurring = $10,
			liquidation_risk = $11, max_capital_allowed = $12, scaling_limit = $13,
			impact = $14, confidence = $15, ease = $16, updated_at = $17
		WHERE id = $18`,
		o.Name, o.Category, o.InitialInvestment,
		o.ExpectedReturn, o.TurnaroundDays, o.TimeRequiredHours,
		o.HourlyRate, o.RiskFactor, o.CertaintyScore, o.IsRecurring,
		o.LiquidationRisk, o.MaxCapitalAllowed, o.ScalingLimit,
		o.Impact, o.Confidence, o.Ease, o.UpdatedAt, o.ID)
	if err != nil {
		return model.Opportunity{}, eris.Wrap(err, "update opportunity")
	}
	if tag.RowsAffected() == 0 {
		return model.Opportunity{}, ErrNotFound
	}
	return r.GetOpportunity(ctx, o.ID)
}

func (r *PostgresRepository) DeleteOpportunity(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "delete opportunity")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const accountColumns = `id, name, type, credit_limit, current_balance, apr_percent,
	statement_day, due_day, available_credit, notes, created_at`

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.CreditLimit, &a.CurrentBalance, &a.APRPercent,
		&a.StatementDay, &a.DueDay, &a.AvailableCredit, &a.Notes, &a.CreatedAt)
	return a, err
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	a.CreatedAt = time.Now().UTC()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (name, type, credit_limit, current_balance, apr_percent,
			statement_day, due_day, available_credit, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		a.Name, a.Type, a.CreditLimit, a.CurrentBalance, a.APRPercent,
		a.StatementDay, a.DueDay, a.AvailableCredit, a.Notes, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return model.Account{}, eris.Wrap(err, "insert account")
	}
	return a, nil
}

func (r *PostgresRepository) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, eris.Wrap(err, "get account")
	}
	return a, nil
}

func (r *PostgresRepository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "list accounts")
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scan account")
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *PostgresRepository) DeleteAccount(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "delete account")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateCreditCycle(ctx context.Context, c model.CreditCycle) (model.CreditCycle, error) {
	c.CreatedAt = time.Now().UTC()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO credit_cycles (account_id, statement_start, statement_end,
			balance_at_statement, min_payment, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		c.AccountID, c.StatementStart.Time(), c.StatementEnd.Time(),
		c.BalanceAtStatement, c.MinPayment, c.DueDate.Time(), c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return model.CreditCycle{}, eris.Wrap(err, "insert credit cycle")
	}
	return c, nil
}

func (r *PostgresRepository) ListCreditCycles(ctx context.Context, accountID int64) ([]model.CreditCycle, error) {
	query := `SELECT id, account_id, statement_start, statement_end,
			balance_at_statement, min_payment, due_date, created_at
		FROM credit_cycles ORDER BY statement_end`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, statement_start, statement_end,
				balance_at_statement, min_payment, due_date, created_at
			FROM credit_cycles WHERE account_id = $1 ORDER BY statement_end`
		args = append(args, accountID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list credit cycles")
	}
	defer rows.Close()

	cycles := []model.CreditCycle{}
	for rows.Next() {
		var c model.CreditCycle
		var start, end, due time.Time
		if err := rows.Scan(&c.ID, &c.AccountID, &start, &end,
			&c.BalanceAtStatement, &c.MinPayment, &due, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "scan credit cycle")
		}
		c.StatementStart = model.NewDate(start.Date())
		c.StatementEnd = model.NewDate(end.Date())
		c.DueDate = model.NewDate(due.Date())
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (r *PostgresRepository) CreateLimitWindow(ctx context.Context, w model.LimitWindow) (model.LimitWindow, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO limit_windows (account_id, start_date, end_date, available_amount, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		w.AccountID, w.StartDate.Time(), w.EndDate.Time(), w.AvailableAmount, w.Notes).Scan(&w.ID)
	if err != nil {
		return model.LimitWindow{}, eris.Wrap(err, "insert limit window")
	}
	return w, nil
}

func (r *PostgresRepository) ListLimitWindows(ctx context.Context, accountID int64) ([]model.LimitWindow, error) {
	query := `SELECT id, account_id, start_date, end_date, available_amount, notes
		FROM limit_windows ORDER BY start_date`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, start_date, end_date, available_amount, notes
			FROM limit_windows WHERE account_id = $1 ORDER BY start_date`
		args = append(args, accountID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list limit windows")
	}
	defer rows.Close()

	windows := []model.LimitWindow{}
	for rows.Next() {
		var w model.LimitWindow
		var start, end time.Time
		if err := rows.Scan(&w.ID, &w.AccountID, &start, &end, &w.AvailableAmount, &w.Notes); err != nil {
			return nil, eris.Wrap(err, "scan limit window")
		}
		w.StartDate = model.NewDate(start.Date())
		w.EndDate = model.NewDate(end.Date())
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *PostgresRepository) CreateCashflowEvent(ctx context.Context, e model.CashflowEvent) (model.CashflowEvent, error) {
	e.CreatedAt = time.Now().UTC()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO cashflow_events (account_id, amount, kind, event_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.AccountID, e.Amount, e.Kind, e.Date.Time(), e.Description, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return model.CashflowEvent{}, eris.Wrap(err, "insert cashflow event")
	}
	return e, nil
}

func (r *PostgresRepository) ListCashflowEvents(ctx context.Context, from, to model.Date) ([]model.CashflowEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, amount, kind, event_date, description, created_at
		FROM cashflow_events WHERE event_date >= $1 AND event_date <= $2
		ORDER BY event_date, id`,
		from.Time(), to.Time())
	if err != nil {
		return nil, eris.Wrap(err, "list cashflow events")
	}
	defer rows.Close()

	events := []model.CashflowEvent{}
	for rows.Next() {
		var e model.CashflowEvent
		var day time.Time
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Kind, &day, &e.Description, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "scan cashflow event")
		}
		e.Date = model.NewDate(day.Date())
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PostgresRepository) CreateLoanTerm(ctx context.Context, l model.LoanTerm) (model.LoanTerm, error) {
	l.CreatedAt = time.Now().UTC()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO loan_terms (account_id, principal, apr_percent, compounding_period,
			monthly_payment, term_months, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		l.AccountID, l.Principal, l.APRPercent, l.CompoundingPeriod,
		l.MonthlyPayment, l.TermMonths, l.CreatedAt).Scan(&l.ID)
	if err != nil {
		return model.LoanTerm{}, eris.Wrap(err, "insert loan term")
	}
	return l, nil
}

func (r *PostgresRepository) ListLoanTerms(ctx context.Context, accountID int64) ([]model.LoanTerm, error) {
	query := `SELECT id, account_id, principal, apr_percent, compounding_period,
			monthly_payment, term_months, created_at
		FROM loan_terms ORDER BY id`
	args := []any{}
	if accountID != 0 {
		query = `SELECT id, account_id, principal, apr_percent, compounding_period,
				monthly_payment, term_months, created_at
			FROM loan_terms WHERE account_id = $1 ORDER BY id`
		args = append(args, accountID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "list loan terms")
	}
	defer rows.Close()

	loans := []model.LoanTerm{}
	for rows.Next() {
		var l model.LoanTerm
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Principal, &l.APRPercent, &l.CompoundingPeriod,
			&l.MonthlyPayment, &l.TermMonths, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "scan loan term")
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
