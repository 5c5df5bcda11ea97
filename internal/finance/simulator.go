package finance

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"floatplan/internal/model"
)

// Snapshot is the immutable record set one simulation runs against. It is
// fetched once before the computation starts and never re-read mid-run.
type Snapshot struct {
	Opportunities []model.Opportunity
	Accounts      []model.Account
	Cycles        []model.CreditCycle
	Windows       []model.LimitWindow
	Events        []model.CashflowEvent
	Loans         []model.LoanTerm
}

// Same-day processing order: inflows raise cash before outflows draw on it,
// opportunity payouts land after that day's spending.
const (
	orderInflow = iota
	orderOutflow
	orderPayout
)

type simEvent struct {
	date        model.Date
	order       int
	amount      int64
	description string
	oppID       int64 // 0 when not attributable to an opportunity
}

type accountState struct {
	account model.Account
	drawn   int64
}

// Simulate projects daily cash balances, float usage and APR costs over the
// input's date range. The returned result embeds the input verbatim; on any
// validation failure no partial result is produced.
func Simulate(in model.SimulationInput, snap Snapshot) (*model.SimulationResult, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, model.Validationf("end_date", "end before start (%s < %s)", in.EndDate, in.StartDate)
	}
	if in.AvailableCash < 0 {
		return nil, model.Validationf("available_cash", "must be >= 0, got %d", in.AvailableCash)
	}
	if in.OrganicSpend < 0 {
		return nil, model.Validationf("organic_spend", "must be >= 0, got %d", in.OrganicSpend)
	}

	selected, err := selectOpportunities(in, snap)
	if err != nil {
		return nil, err
	}
	states, err := selectAccounts(in, snap)
	if err != nil {
		return nil, err
	}

	windowsByAccount := make(map[int64][]model.LimitWindow)
	for _, w := range snap.Windows {
		windowsByAccount[w.AccountID] = append(windowsByAccount[w.AccountID], w)
	}

	run := &simulation{
		input:    in,
		states:   states,
		windows:  windowsByAccount,
		cycles:   snap.Cycles,
		results:  make(map[int64]*model.OpportunityResult, len(selected)),
		selected: selected,
	}
	for _, o := range selected {
		run.results[o.ID] = &model.OpportunityResult{
			OpportunityID: o.ID,
			Name:          o.Name,
			ExpectedValue: o.ExpectedReturn,
			DurationDays:  o.TurnaroundDays,
			Warnings:      []string{},
		}
	}

	if err := run.schedule(snap); err != nil {
		return nil, err
	}
	run.play()

	return run.result()
}

func selectOpportunities(in model.SimulationInput, snap Snapshot) ([]model.Opportunity, error) {
	byID := make(map[int64]model.Opportunity, len(snap.Opportunities))
	for _, o := range snap.Opportunities {
		byID[o.ID] = o
	}
	selected := make([]model.Opportunity, 0, len(in.OpportunityIDs))
	for _, id := range in.OpportunityIDs {
		o, ok := byID[id]
		if !ok {
			return nil, model.Validationf("opportunity_ids", "unknown opportunity %d", id)
		}
		if o.TurnaroundDays <= 0 {
			return nil, model.Validationf("turnaround_days", "opportunity %d: must be > 0", id)
		}
		if o.InitialInvestment < 0 {
			return nil, model.Validationf("initial_investment", "opportunity %d: must be >= 0", id)
		}
		selected = append(selected, o)
	}
	return selected, nil
}

// selectAccounts resolves the funding accounts. A nil id list means every
// credit card account in the snapshot; an explicit list must resolve fully.
func selectAccounts(in model.SimulationInput, snap Snapshot) ([]*accountState, error) {
	byID := make(map[int64]model.Account, len(snap.Accounts))
	for _, a := range snap.Accounts {
		byID[a.ID] = a
	}

	var accounts []model.Account
	if in.AccountIDs == nil {
		for _, a := range snap.Accounts {
			if a.Type == model.AccountCreditCard {
				accounts = append(accounts, a)
			}
		}
	} else {
		for _, id := range in.AccountIDs {
			a, ok := byID[id]
			if !ok {
				return nil, model.Validationf("account_ids", "unknown account %d", id)
			}
			accounts = append(accounts, a)
		}
	}

	states := make([]*accountState, len(accounts))
	for i, a := range accounts {
		states[i] = &accountState{account: a}
	}
	return states, nil
}

type simulation struct {
	input    model.SimulationInput
	selected []model.Opportunity
	states   []*accountState
	windows  map[int64][]model.LimitWindow
	cycles   []model.CreditCycle

	events   []simEvent
	timeline []model.TimelineEntry
	usage    []model.FloatUsage
	results  map[int64]*model.OpportunityResult
	warnings []string
}

// schedule builds the event list: opportunity investments and payouts, organic
// spend, cashflow events inside the window, and loan payments every 30 days.
func (s *simulation) schedule(snap Snapshot) error {
	in := s.input

	if in.OrganicSpend > 0 {
		s.events = append(s.events, simEvent{
			date: in.StartDate, order: orderOutflow, amount: in.OrganicSpend,
			description: "organic spend",
		})
	}

	for _, o := range s.selected {
		if o.InitialInvestment > 0 {
			s.events = append(s.events, simEvent{
				date: in.StartDate, order: orderOutflow, amount: o.InitialInvestment,
				description: fmt.Sprintf("start: %s", o.Name), oppID: o.ID,
			})
		}
		payout := in.StartDate.AddDays(o.TurnaroundDays)
		if payout.After(in.EndDate) {
			s.warn(o.ID, fmt.Sprintf("payout for %q on %s lands beyond the simulation window", o.Name, payout))
			continue
		}
		s.events = append(s.events, simEvent{
			date: payout, order: orderPayout, amount: o.ExpectedReturn,
			description: fmt.Sprintf("payout: %s", o.Name), oppID: o.ID,
		})
	}

	for _, cf := range snap.Events {
		if cf.Date.Before(in.StartDate) || cf.Date.After(in.EndDate) {
			continue
		}
		if cf.Amount < 0 {
			return model.Validationf("cashflow_events", "event %d: negative amount %d", cf.ID, cf.Amount)
		}
		order := orderOutflow
		if cf.Kind == model.CashflowInflow {
			order = orderInflow
		}
		desc := cf.Description
		if desc == "" {
			desc = string(cf.Kind)
		}
		s.events = append(s.events, simEvent{date: cf.Date, order: order, amount: cf.Amount, description: desc})
	}

	for _, loan := range snap.Loans {
		if loan.MonthlyPayment == nil || *loan.MonthlyPayment <= 0 {
			continue
		}
		for d := in.StartDate.AddDays(30); !d.After(in.EndDate); d = d.AddDays(30) {
			s.events = append(s.events, simEvent{
				date: d, order: orderOutflow, amount: *loan.MonthlyPayment,
				description: fmt.Sprintf("loan payment: account %d", loan.AccountID),
			})
		}
	}

	sort.SliceStable(s.events, func(i, j int) bool {
		if !s.events[i].date.Equal(s.events[j].date) {
			return s.events[i].date.Before(s.events[j].date)
		}
		return s.events[i].order < s.events[j].order
	})
	return nil
}

// play runs the day loop from start to end inclusive.
func (s *simulation) play() {
	balance := s.input.AvailableCash
	next := 0

	for day := s.input.StartDate; !day.After(s.input.EndDate); day = day.AddDays(1) {
		count := 0
		for next < len(s.events) && s.events[next].date.Equal(day) {
			ev := s.events[next]
			next++
			count++

			switch ev.order {
			case orderInflow, orderPayout:
				balance += ev.amount
			case orderOutflow:
				if balance >= ev.amount {
					balance -= ev.amount
					continue
				}
				needed := ev.amount - balance
				balance = 0
				s.draw(needed, day, ev.oppID)
			}
		}

		accrued := s.accrueInterest()
		s.checkDueDates(day)

		s.timeline = append(s.timeline, model.TimelineEntry{
			Date:            day,
			Balance:         balance,
			Events:          count,
			AccruedInterest: accrued,
		})
	}
}

// draw funds a cash shortfall from the lowest-APR credit card that still has
// effective available credit, or records a warning when none can cover it.
func (s *simulation) draw(needed int64, day model.Date, oppID int64) {
	var best *accountState
	for _, st := range s.states {
		if st.account.Type != model.AccountCreditCard {
			continue
		}
		available, locked := s.effectiveAvailable(st, day)
		if locked {
			s.warn(oppID, fmt.Sprintf("draw of $%.2f on %s falls inside a locked limit window for account %q",
				float64(needed)/100, day, st.account.Name))
			continue
		}
		if available < needed {
			continue
		}
		if best == nil || st.account.APRPercent < best.account.APRPercent {
			best = st
		}
	}

	if best == nil {
		s.warn(oppID, fmt.Sprintf("insufficient funds on %s: needed $%.2f", day, float64(needed)/100))
		return
	}

	best.drawn += needed
	holdDays := day.DaysUntil(s.input.EndDate)
	cost, _ := CompoundCost(needed, best.account.APRPercent, holdDays)
	s.usage = append(s.usage, model.FloatUsage{
		AccountID:  best.account.ID,
		AmountUsed: needed,
		StartDate:  day,
		EndDate:    s.input.EndDate,
		APRPercent: best.account.APRPercent,
		TotalCost:  cost,
	})
	if r, ok := s.results[oppID]; ok {
		r.FloatRequired += needed
	}
}

// effectiveAvailable applies active limit windows (most restrictive wins) and
// prior draws. locked reports a zero-amount window covering the day.
func (s *simulation) effectiveAvailable(st *accountState, day model.Date) (available int64, locked bool) {
	available = st.account.AvailableCredit
	for _, w := range s.windows[st.account.ID] {
		if !w.Covers(day) {
			continue
		}
		if w.AvailableAmount == 0 {
			return 0, true
		}
		if w.AvailableAmount < available {
			available = w.AvailableAmount
		}
	}
	return available - st.drawn, false
}

// accrueInterest adds one day of simple interest on each outstanding draw and
// returns the total accrued for the day.
func (s *simulation) accrueInterest() float64 {
	var total float64
	for _, st := range s.states {
		if st.drawn <= 0 {
			continue
		}
		daily, _ := SimpleInterest(st.drawn, st.account.APRPercent, 1)
		total += daily
	}
	return total
}

// checkDueDates warns when projected utilization exceeds 80% at a credit
// cycle's due date. Utilization counts the account's standing balance plus
// float drawn during this run.
func (s *simulation) checkDueDates(day model.Date) {
	for _, c := range s.cycles {
		if !c.DueDate.Equal(day) {
			continue
		}
		for _, st := range s.states {
			if st.account.ID != c.AccountID || st.account.CreditLimit <= 0 {
				continue
			}
			utilization := float64(st.account.CurrentBalance+st.drawn) / float64(st.account.CreditLimit)
			if utilization > 0.8 {
				s.warn(0, fmt.Sprintf("utilization %.0f%% exceeds 80%% at due date %s for account %q",
					utilization*100, day, st.account.Name))
			}
		}
	}
}

// warn appends to the global warning list and, when the condition is
// attributable to an opportunity, to that opportunity's result as well.
func (s *simulation) warn(oppID int64, msg string) {
	s.warnings = append(s.warnings, msg)
	if r, ok := s.results[oppID]; ok {
		r.Warnings = append(r.Warnings, msg)
	}
}

func (s *simulation) result() (*model.SimulationResult, error) {
	var totalCost float64
	for _, u := range s.usage {
		totalCost += u.TotalCost
	}
	var totalExpected int64
	for _, o := range s.selected {
		totalExpected += o.ExpectedReturn
	}

	results := make([]model.OpportunityResult, 0, len(s.selected))
	for _, o := range s.selected {
		results = append(results, *s.results[o.ID])
	}

	// Closing cash minus whatever float is still outstanding.
	if n := len(s.timeline); n > 0 {
		var outstanding int64
		for _, st := range s.states {
			outstanding += st.drawn
		}
		if net := s.timeline[n-1].Balance - outstanding; net < 0 {
			s.warn(0, fmt.Sprintf("final position is negative: $%.2f after repaying outstanding float", float64(net)/100))
		}
	}
	if s.usage == nil {
		s.usage = []model.FloatUsage{}
	}
	if s.warnings == nil {
		s.warnings = []string{}
	}

	return &model.SimulationResult{
		RunID:              uuid.NewString(),
		InputSnapshot:      s.input,
		Timeline:           s.timeline,
		FloatUsage:         s.usage,
		TotalAPRCost:       totalCost,
		ProjectedNetProfit: float64(totalExpected) - totalCost,
		Results:            results,
		Warnings:           s.warnings,
	}, nil
}
