package scoring

import (
	"sort"

	"floatplan/internal/model"
)

// Mode selects how the composite score is assembled.
type Mode string

const (
	ModeROI      Mode = "roi"
	ModeICE      Mode = "ice"
	ModeCombined Mode = "combined"
)

// ParseMode maps a request string onto a Mode. Empty defaults to roi.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeROI, nil
	case ModeROI, ModeICE, ModeCombined:
		return Mode(s), nil
	}
	return "", model.Validationf("mode", "unknown scoring mode %q", s)
}

// Weights configures the composite formulas. ROI/Cost/Certainty weight the roi
// mode; ICEBlend is the share of the normalized ICE score in combined mode,
// with the roi composite taking the remainder.
type Weights struct {
	ROI       float64
	Cost      float64
	Certainty float64
	ICEBlend  float64
}

// DefaultWeights returns the stock weighting: 50% risk-adjusted ROI, 30%
// inverse opportunity cost, 20% certainty, and an equal-weight combined blend.
func DefaultWeights() Weights {
	return Weights{ROI: 0.5, Cost: 0.3, Certainty: 0.2, ICEBlend: 0.5}
}

func (w Weights) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"roi_weight", w.ROI}, {"cost_weight", w.Cost}, {"certainty_weight", w.Certainty}} {
		if f.v < 0 {
			return model.Validationf(f.name, "must be >= 0, got %g", f.v)
		}
	}
	if w.ROI+w.Cost+w.Certainty <= 0 {
		return model.Validationf("weights", "roi+cost+certainty weights must sum to > 0")
	}
	if w.ICEBlend < 0 || w.ICEBlend > 1 {
		return model.Validationf("ice_blend", "must be in [0,1], got %g", w.ICEBlend)
	}
	return nil
}

// Ranked is an opportunity annotated with its metrics, normalized scores and
// composite score for one scoring mode.
type Ranked struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category,omitempty"`
	Metrics         Metrics  `json:"metrics"`
	CertaintyScore  float64  `json:"certainty_score"`
	IsRecurring     bool     `json:"is_recurring"`
	LiquidationRisk *float64 `json:"liquidation_risk,omitempty"`
	ScoredROI       float64  `json:"scored_roi"`
	ScoredCost      float64  `json:"scored_cost"`
	ScoredCertainty float64  `json:"scored_certainty"`
	ScoredICE       float64  `json:"scored_ice"`
	CompositeScore  float64  `json:"composite_score"`
}

// Rank scores the candidate pool under the given mode and returns it ordered
// by composite score descending. Ties keep the input order. Calling Rank twice
// on the same snapshot yields identical output; there is no hidden state.
func Rank(opps []model.Opportunity, mode Mode, w Weights) ([]Ranked, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	for _, o := range opps {
		if err := Validate(o); err != nil {
			return nil, err
		}
	}

	ranked := make([]Ranked, len(opps))
	rois := make([]float64, len(opps))
	invCosts := make([]float64, len(opps))
	ices := make([]float64, len(opps))

	for i, o := range opps {
		m := Compute(o)
		ranked[i] = Ranked{
			ID:              o.ID,
			Name:            o.Name,
			Category:        o.Category,
			Metrics:         m,
			CertaintyScore:  o.CertaintyScore,
			IsRecurring:     o.IsRecurring,
			LiquidationRisk: o.LiquidationRisk,
		}
		rois[i] = m.RiskAdjustedROI
		cost := m.OpportunityCost
		if cost < 1 {
			cost = 1
		}
		invCosts[i] = 1 / float64(cost)
		ices[i] = m.ICEScore
	}

	scoredROI := MinMax(rois)
	scoredCost := MinMax(invCosts)
	scoredICE := MinMax(ices)

	for i := range ranked {
		ranked[i].ScoredROI = scoredROI[i]
		ranked[i].ScoredCost = scoredCost[i]
		ranked[i].ScoredCertainty = opps[i].CertaintyScore
		ranked[i].ScoredICE = scoredICE[i]

		roiComposite := w.ROI*scoredROI[i] + w.Cost*scoredCost[i] + w.Certainty*opps[i].CertaintyScore
		switch mode {
		case ModeICE:
			ranked[i].CompositeScore = scoredICE[i]
		case ModeCombined:
			ranked[i].CompositeScore = w.ICEBlend*scoredICE[i] + (1-w.ICEBlend)*roiComposite
		default:
			ranked[i].CompositeScore = roiComposite
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	return ranked, nil
}

// RankDifference is one opportunity's position under the ICE ordering versus
// the ROI ordering.
type RankDifference struct {
	OpportunityID int64  `json:"opportunity_id"`
	Name          string `json:"name"`
	ICERank       int    `json:"ice_rank"`
	ROIRank       int    `json:"roi_rank"`
	Difference    int    `json:"difference"`
}

// Comparison summarizes how differently the ICE and ROI modes order the pool.
type Comparison struct {
	Total           int              `json:"total_opportunities"`
	RankDifferences []RankDifference `json:"rank_differences"`
	MaxDifference   int              `json:"max_difference"`
	AvgDifference   float64          `json:"avg_difference"`
}

// CompareModes ranks the pool under ice and roi and reports per-opportunity
// rank shifts, largest first.
func CompareModes(opps []model.Opportunity, w Weights) (*Comparison, error) {
	byICE, err := Rank(opps, ModeICE, w)
	if err != nil {
		return nil, err
	}
	byROI, err := Rank(opps, ModeROI, w)
	if err != nil {
		return nil, err
	}

	roiPos := make(map[int64]int, len(byROI))
	for i, r := range byROI {
		roiPos[r.ID] = i
	}

	cmp := &Comparison{Total: len(opps)}
	var sum int
	for i, r := range byICE {
		diff := i - roiPos[r.ID]
		if diff < 0 {
			diff = -diff
		}
		cmp.RankDifferences = append(cmp.RankDifferences, RankDifference{
			OpportunityID: r.ID,
			Name:          r.Name,
			ICERank:       i,
			ROIRank:       roiPos[r.ID],
			Difference:    diff,
		})
		if diff > cmp.MaxDifference {
			cmp.MaxDifference = diff
		}
		sum += diff
	}
	if len(cmp.RankDifferences) > 0 {
		cmp.AvgDifference = float64(sum) / float64(len(cmp.RankDifferences))
	}
	sort.SliceStable(cmp.RankDifferences, func(i, j int) bool {
		return cmp.RankDifferences[i].Difference > cmp.RankDifferences[j].Difference
	})
	return cmp, nil
}
