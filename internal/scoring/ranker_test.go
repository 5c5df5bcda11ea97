package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatplan/internal/model"
)

// pool returns three opportunities with strictly increasing risk-adjusted ROI
// and identical cost/certainty inputs.
func pool() []model.Opportunity {
	mk := func(id int64, ret int64) model.Opportunity {
		o := validOpportunity()
		o.ID = id
		o.ExpectedReturn = ret
		return o
	}
	return []model.Opportunity{mk(1, 1000), mk(2, 2000), mk(3, 3000)}
}

func TestRank_ROIOrdering(t *testing.T) {
	ranked, err := Rank(pool(), ModeROI, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// Highest risk-adjusted ROI first.
	assert.Equal(t, int64(3), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
	assert.GreaterOrEqual(t, ranked[0].CompositeScore, ranked[1].CompositeScore)
	assert.GreaterOrEqual(t, ranked[1].CompositeScore, ranked[2].CompositeScore)

	// Certainty passes through unmodified.
	for _, r := range ranked {
		assert.InDelta(t, 0.8, r.ScoredCertainty, 1e-12)
	}
}

func TestRank_ROICompositeWeights(t *testing.T) {
	ranked, err := Rank(pool(), ModeROI, DefaultWeights())
	require.NoError(t, err)

	for _, r := range ranked {
		want := 0.5*r.ScoredROI + 0.3*r.ScoredCost + 0.2*r.ScoredCertainty
		assert.InDelta(t, want, r.CompositeScore, 1e-12)
	}
}

func TestRank_ICEModeIsNormalizedICE(t *testing.T) {
	opps := pool()
	opps[0].Impact, opps[0].Confidence, opps[0].Ease = 9, 9, 3
	opps[1].Impact, opps[1].Confidence, opps[1].Ease = 5, 5, 5
	opps[2].Impact, opps[2].Confidence, opps[2].Ease = 2, 3, 8

	ranked, err := Rank(opps, ModeICE, DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, int64(1), ranked[0].ID)
	for _, r := range ranked {
		assert.InDelta(t, r.ScoredICE, r.CompositeScore, 1e-12)
	}
}

func TestRank_CombinedBlend(t *testing.T) {
	w := DefaultWeights()
	w.ICEBlend = 0.7

	ranked, err := Rank(pool(), ModeCombined, w)
	require.NoError(t, err)

	for _, r := range ranked {
		roi := w.ROI*r.ScoredROI + w.Cost*r.ScoredCost + w.Certainty*r.ScoredCertainty
		want := 0.7*r.ScoredICE + 0.3*roi
		assert.InDelta(t, want, r.CompositeScore, 1e-12)
	}
}

func TestRank_Idempotent(t *testing.T) {
	opps := pool()
	first, err := Rank(opps, ModeROI, DefaultWeights())
	require.NoError(t, err)
	second, err := Rank(opps, ModeROI, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRank_StableTies(t *testing.T) {
	// Identical inputs score identically; the input order must survive.
	mk := func(id int64) model.Opportunity {
		o := validOpportunity()
		o.ID = id
		return o
	}
	ranked, err := Rank([]model.Opportunity{mk(7), mk(8), mk(9)}, ModeROI, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, int64(7), ranked[0].ID)
	assert.Equal(t, int64(8), ranked[1].ID)
	assert.Equal(t, int64(9), ranked[2].ID)
}

func TestRank_InvalidInputAborts(t *testing.T) {
	opps := pool()
	opps[1].TurnaroundDays = 0

	_, err := Rank(opps, ModeROI, DefaultWeights())
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestRank_InvalidWeights(t *testing.T) {
	w := DefaultWeights()
	w.ICEBlend = 1.5
	_, err := Rank(pool(), ModeCombined, w)
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeROI, m)

	m, err = ParseMode("combined")
	require.NoError(t, err)
	assert.Equal(t, ModeCombined, m)

	_, err = ParseMode("alphabetical")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestCompareModes(t *testing.T) {
	opps := pool()
	// Give the lowest-ROI opportunity the best ICE score so the orderings invert.
	opps[0].Impact, opps[0].Confidence, opps[0].Ease = 10, 10, 1
	opps[2].Impact, opps[2].Confidence, opps[2].Ease = 1, 1, 10

	cmp, err := CompareModes(opps, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 3, cmp.Total)
	assert.Equal(t, 2, cmp.MaxDifference)
	require.NotEmpty(t, cmp.RankDifferences)
	// Largest shift reported first.
	assert.Equal(t, 2, cmp.RankDifferences[0].Difference)
}

func TestExplain(t *testing.T) {
	opps := pool()
	ranked, err := Rank(opps, ModeROI, DefaultWeights())
	require.NoError(t, err)

	var target Ranked
	for _, r := range ranked {
		if r.ID == 3 {
			target = r
		}
	}
	var source model.Opportunity
	for _, o := range opps {
		if o.ID == 3 {
			source = o
		}
	}

	ex := Explain(source, target, DefaultWeights())
	assert.Equal(t, int64(3), ex.OpportunityID)
	assert.Equal(t, target.CompositeScore, ex.CompositeScore)
	assert.Contains(t, ex.DailyROIPctFormula, "max(0, 1)")
	assert.Contains(t, ex.OpportunityCostFormula, "40 * 50")
}
