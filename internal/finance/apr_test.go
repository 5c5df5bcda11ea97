package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatplan/internal/model"
)

func TestDailyRate(t *testing.T) {
	r, err := DailyRate(24.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.24/365, r, 1e-12)

	r, err = DailyRate(0)
	require.NoError(t, err)
	assert.Zero(t, r)

	_, err = DailyRate(-1)
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestCompoundCost(t *testing.T) {
	t.Run("thirty day card float", func(t *testing.T) {
		// 300000 cents held 30 days at 24% APR.
		got, err := CompoundCost(300000, 24.0, 30)
		require.NoError(t, err)
		want := 300000 * (math.Pow(1+24.0/100/365, 30) - 1)
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("zero days is free", func(t *testing.T) {
		got, err := CompoundCost(1_000_000, 99.9, 0)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("zero principal is free", func(t *testing.T) {
		got, err := CompoundCost(0, 24.0, 365)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("negative inputs rejected", func(t *testing.T) {
		_, err := CompoundCost(-1, 24.0, 30)
		assert.True(t, model.IsValidation(err))
		_, err = CompoundCost(1000, -24.0, 30)
		assert.True(t, model.IsValidation(err))
		_, err = CompoundCost(1000, 24.0, -30)
		assert.True(t, model.IsValidation(err))
	})

	t.Run("exceeds simple interest", func(t *testing.T) {
		compound, err := CompoundCost(100000, 24.0, 60)
		require.NoError(t, err)
		simple, err := SimpleInterest(100000, 24.0, 60)
		require.NoError(t, err)
		assert.Greater(t, compound, simple)
	})
}

func TestSimpleInterest(t *testing.T) {
	got, err := SimpleInterest(100000, 24.0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 100000*0.24/365, got, 1e-9)

	_, err = SimpleInterest(100000, -1, 1)
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestEffectiveRate(t *testing.T) {
	want := math.Pow(1+24.0/100/365, 30) - 1
	assert.InDelta(t, want, EffectiveRate(24.0, 30), 1e-12)
	assert.Zero(t, EffectiveRate(0, 30))
}

func TestCostPerDollarPerDay(t *testing.T) {
	assert.InDelta(t, 0.24/365, CostPerDollarPerDay(24.0), 1e-12)
}

func TestDaysUntilDouble(t *testing.T) {
	assert.Equal(t, 1054, DaysUntilDouble(24.0))
	assert.Zero(t, DaysUntilDouble(0))
	assert.Zero(t, DaysUntilDouble(-5))
}

func TestMonthlyPayment(t *testing.T) {
	// $10k at 12% over 36 months is about $332.14/month.
	assert.InDelta(t, 332.14, MonthlyPayment(10000, 12.0, 36), 0.01)
	// Zero APR amortizes linearly.
	assert.InDelta(t, 100, MonthlyPayment(3600, 0, 36), 1e-9)
	// Degenerate term.
	assert.InDelta(t, 10000, MonthlyPayment(10000, 12.0, 0), 1e-9)
}

func TestRemainingBalance(t *testing.T) {
	payment := MonthlyPayment(10000, 12.0, 36)

	assert.InDelta(t, 10000, RemainingBalance(10000, 12.0, payment, 0), 1e-9)

	half := RemainingBalance(10000, 12.0, payment, 18)
	assert.Greater(t, half, 0.0)
	assert.Less(t, half, 10000.0)

	// The full term retires the loan to within rounding.
	assert.InDelta(t, 0, RemainingBalance(10000, 12.0, payment, 36), 0.1)
}
