package scoring

import (
	"fmt"

	"floatplan/internal/model"
)

// Explanation exposes the step-by-step metric computation for one opportunity,
// formulas included. Debug surface for validating the scoring pipeline.
type Explanation struct {
	OpportunityID   int64  `json:"opportunity_id"`
	OpportunityName string `json:"opportunity_name"`

	InitialInvestment int64   `json:"initial_investment"`
	ExpectedReturn    int64   `json:"expected_return"`
	TurnaroundDays    int     `json:"turnaround_days"`
	TimeRequiredHours int     `json:"time_required_hours"`
	HourlyRate        int64   `json:"hourly_rate"`
	RiskFactor        float64 `json:"risk_factor"`
	CertaintyScore    float64 `json:"certainty_score"`

	Profit                 int64   `json:"profit"`
	DailyROIPct            float64 `json:"daily_roi_pct"`
	DailyROIPctFormula     string  `json:"daily_roi_pct_formula"`
	RiskAdjustedROI        float64 `json:"risk_adjusted_roi"`
	RiskAdjustedROIFormula string  `json:"risk_adjusted_roi_formula"`
	OpportunityCost        int64   `json:"opportunity_cost"`
	OpportunityCostFormula string  `json:"opportunity_cost_formula"`
	ICEScore               float64 `json:"ice_score"`
	ICEScoreFormula        string  `json:"ice_score_formula"`

	ScoredROI       float64 `json:"scored_roi"`
	ScoredCost      float64 `json:"scored_cost"`
	ScoredCertainty float64 `json:"scored_certainty"`
	ScoredICE       float64 `json:"scored_ice"`

	CompositeScore        float64 `json:"composite_score"`
	CompositeScoreFormula string  `json:"composite_score_formula"`
}

// Explain assembles the Explanation for one ranked opportunity. r must be the
// Ranked entry produced for o within the same candidate pool, so the
// normalized scores refer to the pool the caller actually ranked.
func Explain(o model.Opportunity, r Ranked, w Weights) Explanation {
	m := r.Metrics
	return Explanation{
		OpportunityID:     o.ID,
		OpportunityName:   o.Name,
		InitialInvestment: o.InitialInvestment,
		ExpectedReturn:    o.ExpectedReturn,
		TurnaroundDays:    o.TurnaroundDays,
		TimeRequiredHours: o.TimeRequiredHours,
		HourlyRate:        o.HourlyRate,
		RiskFactor:        o.RiskFactor,
		CertaintyScore:    o.CertaintyScore,

		Profit:      m.Profit,
		DailyROIPct: m.DailyROIPct,
		DailyROIPctFormula: fmt.Sprintf("((%d - %d) / max(%d, 1)) / %d * 100",
			o.ExpectedReturn, o.InitialInvestment, o.InitialInvestment, o.TurnaroundDays),
		RiskAdjustedROI:        m.RiskAdjustedROI,
		RiskAdjustedROIFormula: fmt.Sprintf("%g * (1 - %g)", m.DailyROIPct, o.RiskFactor),
		OpportunityCost:        m.OpportunityCost,
		OpportunityCostFormula: fmt.Sprintf("%d * %d", o.TimeRequiredHours, o.HourlyRate),
		ICEScore:               m.ICEScore,
		ICEScoreFormula:        fmt.Sprintf("(%d * %d) / max(%d, 1)", o.Impact, o.Confidence, o.Ease),

		ScoredROI:       r.ScoredROI,
		ScoredCost:      r.ScoredCost,
		ScoredCertainty: r.ScoredCertainty,
		ScoredICE:       r.ScoredICE,

		CompositeScore: r.CompositeScore,
		CompositeScoreFormula: fmt.Sprintf("(%g * %g) + (%g * %g) + (%g * %g)",
			r.ScoredROI, w.ROI, r.ScoredCost, w.Cost, r.ScoredCertainty, w.Certainty),
	}
}
