package model

import "time"

// AccountType enumerates the supported account kinds.
type AccountType string

const (
	AccountCreditCard   AccountType = "credit_card"
	AccountBank         AccountType = "bank_account"
	AccountLoan         AccountType = "loan"
	AccountLineOfCredit AccountType = "line_of_credit"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountCreditCard, AccountBank, AccountLoan, AccountLineOfCredit:
		return true
	}
	return false
}

// CashflowKind enumerates cashflow event directions.
type CashflowKind string

const (
	CashflowInflow  CashflowKind = "inflow"
	CashflowOutflow CashflowKind = "outflow"
)

// Opportunity is a candidate income source to be scored and simulated.
// All money fields are integer cents. Records are immutable during a ranking
// or simulation pass; derived metrics are recomputed on every read.
type Opportunity struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category,omitempty"`
	InitialInvestment int64     `json:"initial_investment"`
	ExpectedReturn    int64     `json:"expected_return"`
	TurnaroundDays    int       `json:"turnaround_days"`
	TimeRequiredHours int       `json:"time_required_hours"`
	HourlyRate        int64     `json:"hourly_rate"`
	RiskFactor        float64   `json:"risk_factor"`
	CertaintyScore    float64   `json:"certainty_score"`
	IsRecurring       bool      `json:"is_recurring"`
	LiquidationRisk   *float64  `json:"liquidation_risk,omitempty"`
	MaxCapitalAllowed *int64    `json:"max_capital_allowed,omitempty"`
	ScalingLimit      *int      `json:"scaling_limit,omitempty"`
	Impact            int       `json:"impact"`
	Confidence        int       `json:"confidence"`
	Ease              int       `json:"ease"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Account is a funding source: cash on deposit or a revolving credit line.
type Account struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Type            AccountType `json:"type"`
	CreditLimit     int64       `json:"credit_limit"`
	CurrentBalance  int64       `json:"current_balance"`
	APRPercent      float64     `json:"apr_percent"`
	StatementDay    *int        `json:"statement_day,omitempty"`
	DueDay          *int        `json:"due_day,omitempty"`
	AvailableCredit int64       `json:"available_credit"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CreditCycle is one statement period of a credit card account.
// Unique per (account, statement_end).
type CreditCycle struct {
	ID                 int64     `json:"id"`
	AccountID          int64     `json:"account_id"`
	StatementStart     Date      `json:"statement_start"`
	StatementEnd       Date      `json:"statement_end"`
	BalanceAtStatement int64     `json:"balance_at_statement"`
	MinPayment         int64     `json:"min_payment"`
	DueDate            Date      `json:"due_date"`
	CreatedAt          time.Time `json:"created_at"`
}

// LimitWindow temporarily overrides an account's usable credit during an
// interval. When several windows cover the same day the most restrictive
// amount wins.
type LimitWindow struct {
	ID              int64  `json:"id"`
	AccountID       int64  `json:"account_id"`
	StartDate       Date   `json:"start_date"`
	EndDate         Date   `json:"end_date"`
	AvailableAmount int64  `json:"available_amount"`
	Notes           string `json:"notes,omitempty"`
}

// Covers reports whether the window is active on day d.
func (w LimitWindow) Covers(d Date) bool {
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

// CashflowEvent is a scheduled inflow or outflow on a calendar day.
type CashflowEvent struct {
	ID          int64        `json:"id"`
	AccountID   *int64       `json:"account_id,omitempty"`
	Amount      int64        `json:"amount"`
	Kind        CashflowKind `json:"kind"`
	Date        Date         `json:"date"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// LoanTerm describes the repayment schedule attached to a loan account.
type LoanTerm struct {
	ID                int64     `json:"id"`
	AccountID         int64     `json:"account_id"`
	Principal         int64     `json:"principal"`
	APRPercent        float64   `json:"apr_percent"`
	CompoundingPeriod string    `json:"compounding_period"`
	MonthlyPayment    *int64    `json:"monthly_payment,omitempty"`
	TermMonths        *int      `json:"term_months,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
