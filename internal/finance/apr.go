// Package finance computes float costs and simulates multi-day cash/credit
// usage. Like the scoring package it is purely computational: it never mutates
// its inputs and returns either a complete result or a typed error.
package finance

import (
	"math"

	"floatplan/internal/model"
)

// DaysPerYear is the APR day-count convention (365, not the 360 some loan
// products use).
const DaysPerYear = 365

// DailyRate converts an annual percentage rate to a daily rate.
// 24.0 -> 0.24/365.
func DailyRate(aprPercent float64) (float64, error) {
	if aprPercent < 0 {
		return 0, model.Validationf("apr_percent", "must be >= 0, got %g", aprPercent)
	}
	return aprPercent / 100 / DaysPerYear, nil
}

// CompoundCost returns the interest accumulated by holding principal for the
// given number of days with daily compounding: principal * ((1+r)^days - 1).
// Zero days or zero principal costs nothing.
func CompoundCost(principal int64, aprPercent float64, days int) (float64, error) {
	r, err := DailyRate(aprPercent)
	if err != nil {
		return 0, err
	}
	if principal < 0 {
		return 0, model.Validationf("principal", "must be >= 0, got %d", principal)
	}
	if days < 0 {
		return 0, model.Validationf("days", "must be >= 0, got %d", days)
	}
	if days == 0 || principal == 0 {
		return 0, nil
	}
	return float64(principal) * (math.Pow(1+r, float64(days)) - 1), nil
}

// SimpleInterest returns non-compounding interest: principal * r * days.
// The simulator uses the one-day form for per-day timeline accrual; compound
// cost is the right call for cumulative cost-of-float summaries.
func SimpleInterest(principal int64, aprPercent float64, days int) (float64, error) {
	r, err := DailyRate(aprPercent)
	if err != nil {
		return 0, err
	}
	if principal < 0 {
		return 0, model.Validationf("principal", "must be >= 0, got %d", principal)
	}
	if days < 0 {
		return 0, model.Validationf("days", "must be >= 0, got %d", days)
	}
	return float64(principal) * r * float64(days), nil
}

// EffectiveRate returns the effective rate of carrying a balance for a period
// of the given length: (1+r)^days - 1.
func EffectiveRate(aprPercent float64, days int) float64 {
	r := aprPercent / 100 / DaysPerYear
	return math.Pow(1+r, float64(days)) - 1
}

// CostPerDollarPerDay returns the daily carrying cost of one dollar at the
// given APR. Quick-estimate helper.
func CostPerDollarPerDay(aprPercent float64) float64 {
	return aprPercent / 100 / DaysPerYear
}

// DaysUntilDouble returns how many days until a compounding balance doubles,
// or 0 for a non-positive APR.
func DaysUntilDouble(aprPercent float64) int {
	if aprPercent <= 0 {
		return 0
	}
	r := aprPercent / 100 / DaysPerYear
	return int(math.Log(2) / math.Log(1+r))
}

// MonthlyPayment returns the standard amortized monthly payment for a loan:
// P * (r(1+r)^n) / ((1+r)^n - 1).
func MonthlyPayment(principal int64, aprPercent float64, months int) float64 {
	if months <= 0 {
		return float64(principal)
	}
	if aprPercent == 0 {
		return float64(principal) / float64(months)
	}
	r := aprPercent / 100 / 12
	pow := math.Pow(1+r, float64(months))
	return float64(principal) * (r * pow) / (pow - 1)
}

// RemainingBalance returns the balance left on an amortized loan after the
// given number of monthly payments.
func RemainingBalance(principal int64, aprPercent float64, monthlyPayment float64, paymentsMade int) float64 {
	balance := float64(principal)
	r := aprPercent / 100 / 12
	for i := 0; i < paymentsMade; i++ {
		interest := balance * r
		balance -= monthlyPayment - interest
		if balance <= 0 {
			return 0
		}
	}
	return balance
}
