// Package scoring derives comparable metrics from raw opportunity records and
// ranks them by weighted composite score. Everything in this package is a pure
// function over the caller's snapshot: no entity is mutated and nothing is
// cached between calls.
package scoring

import "floatplan/internal/model"

// Metrics are the derived financial metrics for a single opportunity.
type Metrics struct {
	Profit          int64   `json:"profit"`
	DailyROIPct     float64 `json:"daily_roi_pct"`
	RiskAdjustedROI float64 `json:"risk_adjusted_roi"`
	OpportunityCost int64   `json:"opportunity_cost"`
	ICEScore        float64 `json:"ice_score"`
}

// Validate checks the invariants the metric formulas rely on. Compute must
// only be called with an opportunity that passed Validate.
func Validate(o model.Opportunity) error {
	if o.TurnaroundDays <= 0 {
		return model.Validationf("turnaround_days", "must be > 0, got %d", o.TurnaroundDays)
	}
	if o.HourlyRate <= 0 {
		return model.Validationf("hourly_rate", "must be > 0, got %d", o.HourlyRate)
	}
	if o.InitialInvestment < 0 {
		return model.Validationf("initial_investment", "must be >= 0, got %d", o.InitialInvestment)
	}
	if o.TimeRequiredHours < 0 {
		return model.Validationf("time_required_hours", "must be >= 0, got %d", o.TimeRequiredHours)
	}
	if o.RiskFactor < 0 || o.RiskFactor > 1 {
		return model.Validationf("risk_factor", "must be in [0,1], got %g", o.RiskFactor)
	}
	if o.CertaintyScore < 0 || o.CertaintyScore > 1 {
		return model.Validationf("certainty_score", "must be in [0,1], got %g", o.CertaintyScore)
	}
	if o.LiquidationRisk != nil && (*o.LiquidationRisk < 0 || *o.LiquidationRisk > 1) {
		return model.Validationf("liquidation_risk", "must be in [0,1], got %g", *o.LiquidationRisk)
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"impact", o.Impact}, {"confidence", o.Confidence}, {"ease", o.Ease}} {
		if f.v < 0 || f.v > 10 {
			return model.Validationf(f.name, "must be in [0,10], got %d", f.v)
		}
	}
	return nil
}

// Compute derives the metrics for a validated opportunity.
//
// The max(initial_investment, 1) denominator in the daily ROI is a deliberate
// guard for zero-investment opportunities, not a bug: it keeps the formula
// total while treating a free opportunity as a one-cent stake.
func Compute(o model.Opportunity) Metrics {
	profit := o.ExpectedReturn - o.InitialInvestment

	investment := o.InitialInvestment
	if investment < 1 {
		investment = 1
	}
	dailyROI := float64(profit) / float64(investment) / float64(o.TurnaroundDays) * 100

	ease := o.Ease
	if ease < 1 {
		ease = 1
	}

	return Metrics{
		Profit:          profit,
		DailyROIPct:     dailyROI,
		RiskAdjustedROI: dailyROI * (1 - o.RiskFactor),
		OpportunityCost: int64(o.TimeRequiredHours) * o.HourlyRate,
		ICEScore:        float64(o.Impact*o.Confidence) / float64(ease),
	}
}
