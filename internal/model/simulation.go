package model

// SimulationInput is the caller-supplied request for a liquidity simulation.
// It is embedded verbatim in the result for provenance.
type SimulationInput struct {
	AvailableCash  int64   `json:"available_cash"`
	OrganicSpend   int64   `json:"organic_spend,omitempty"`
	StartDate      Date    `json:"start_date"`
	EndDate        Date    `json:"end_date"`
	OpportunityIDs []int64 `json:"opportunity_ids"`
	// AccountIDs limits which accounts may fund float. Nil means all credit
	// card accounts in the snapshot.
	AccountIDs []int64 `json:"account_ids,omitempty"`
}

// TimelineEntry is one day of the simulation.
type TimelineEntry struct {
	Date    Date  `json:"date"`
	Balance int64 `json:"balance"`
	Events  int   `json:"events"`
	// AccruedInterest is the simple daily interest accrued on outstanding
	// float during this day, in cents. Informational; cumulative float cost
	// is reported per FloatUsage with the compounding formula.
	AccruedInterest float64 `json:"accrued_interest"`
}

// FloatUsage records one draw of credit and its cost over the holding period.
type FloatUsage struct {
	AccountID  int64   `json:"account_id"`
	AmountUsed int64   `json:"amount_used"`
	StartDate  Date    `json:"start_date"`
	EndDate    Date    `json:"end_date"`
	APRPercent float64 `json:"apr_percent"`
	TotalCost  float64 `json:"total_cost"`
}

// OpportunityResult is the per-opportunity outcome of a simulation.
type OpportunityResult struct {
	OpportunityID int64    `json:"opportunity_id"`
	Name          string   `json:"name"`
	ExpectedValue int64    `json:"expected_value"`
	FloatRequired int64    `json:"float_required"`
	DurationDays  int      `json:"duration_days"`
	Warnings      []string `json:"warnings"`
}

// SimulationResult is the terminal state of one simulation run.
type SimulationResult struct {
	RunID              string              `json:"run_id"`
	InputSnapshot      SimulationInput     `json:"input_snapshot"`
	Timeline           []TimelineEntry     `json:"timeline"`
	FloatUsage         []FloatUsage        `json:"float_usage"`
	TotalAPRCost       float64             `json:"total_apr_cost"`
	ProjectedNetProfit float64             `json:"projected_net_profit"`
	Results            []OpportunityResult `json:"results"`
	Warnings           []string            `json:"warnings"`
}
