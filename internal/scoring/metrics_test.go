package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatplan/internal/model"
)

func validOpportunity() model.Opportunity {
	return model.Opportunity{
		ID:                1,
		Name:              "freelance sprint",
		InitialInvestment: 0,
		ExpectedReturn:    3000,
		TurnaroundDays:    30,
		TimeRequiredHours: 40,
		HourlyRate:        50,
		RiskFactor:        0.2,
		CertaintyScore:    0.8,
		Impact:            5,
		Confidence:        5,
		Ease:              5,
	}
}

func TestCompute_ZeroInvestmentGuard(t *testing.T) {
	o := validOpportunity()
	require.NoError(t, Validate(o))

	m := Compute(o)
	assert.Equal(t, int64(3000), m.Profit)
	assert.InDelta(t, 10000.0, m.DailyROIPct, 1e-9)
	assert.InDelta(t, 8000.0, m.RiskAdjustedROI, 1e-9)
	assert.Equal(t, int64(2000), m.OpportunityCost)
}

func TestCompute_WithInvestment(t *testing.T) {
	o := validOpportunity()
	o.InitialInvestment = 1000
	o.ExpectedReturn = 1500
	o.TurnaroundDays = 60

	m := Compute(o)
	assert.Equal(t, int64(500), m.Profit)
	assert.InDelta(t, 0.8333333333, m.DailyROIPct, 1e-9)
}

func TestCompute_ICEScore(t *testing.T) {
	o := validOpportunity()
	o.Impact, o.Confidence, o.Ease = 9, 9, 5
	assert.InDelta(t, 16.2, Compute(o).ICEScore, 1e-9)

	// Ease of zero falls back to one rather than dividing by zero.
	o.Ease = 0
	assert.InDelta(t, 81.0, Compute(o).ICEScore, 1e-9)
}

func TestCompute_NegativeProfit(t *testing.T) {
	o := validOpportunity()
	o.InitialInvestment = 5000
	o.ExpectedReturn = 3000

	m := Compute(o)
	assert.Equal(t, int64(-2000), m.Profit)
	assert.Less(t, m.DailyROIPct, 0.0)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Opportunity)
		field  string
	}{
		{"zero turnaround", func(o *model.Opportunity) { o.TurnaroundDays = 0 }, "turnaround_days"},
		{"negative turnaround", func(o *model.Opportunity) { o.TurnaroundDays = -3 }, "turnaround_days"},
		{"zero hourly rate", func(o *model.Opportunity) { o.HourlyRate = 0 }, "hourly_rate"},
		{"negative investment", func(o *model.Opportunity) { o.InitialInvestment = -1 }, "initial_investment"},
		{"negative hours", func(o *model.Opportunity) { o.TimeRequiredHours = -1 }, "time_required_hours"},
		{"risk above one", func(o *model.Opportunity) { o.RiskFactor = 1.2 }, "risk_factor"},
		{"certainty below zero", func(o *model.Opportunity) { o.CertaintyScore = -0.1 }, "certainty_score"},
		{"impact out of range", func(o *model.Opportunity) { o.Impact = 11 }, "impact"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOpportunity()
			tc.mutate(&o)
			err := Validate(o)
			require.Error(t, err)
			assert.True(t, model.IsValidation(err))
			assert.Contains(t, err.Error(), tc.field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(validOpportunity()))
	})
}
