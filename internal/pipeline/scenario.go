package pipeline

import (
	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Simulate applies d to base and returns the resulting figures.
//
// The model is deliberately simple:
//   - each added hire costs AvgCostPerHire per month
//   - the marketing delta is added to expenses as well as to marketing
//     spend, since baseline expenses already include marketing
//   - units sold stay constant when the price changes
//
// Simulate does no I/O, holds no state and never fails; negative hires are
// treated as zero and no other input is range-checked. base must have been
// loaded through Fold or LoadFinances.
func Simulate(base *model.Finances, d model.Delta) model.Result {
	addHires := d.AddHires
	if addHires < 0 {
		addHires = 0
	}

	hireCostChange := decimal.NewFromInt(addHires).Mul(base.AvgCostPerHire)
	newHires := base.CurrentHires + addHires
	newMarketing := base.MonthlyMarketing.Add(d.DeltaMarketing)
	newExpenses := base.Expenses.Add(hireCostChange).Add(d.DeltaMarketing)

	newPrice := base.BaselinePrice.Mul(one.Add(d.PriceChangePct.Div(hundred)))
	newRevenue := newPrice.Mul(decimal.NewFromInt(base.UnitsSold))

	newBurn := newExpenses.Sub(newRevenue)
	newRunway := model.UnboundedRunway()
	if newBurn.IsPositive() {
		newRunway = model.ComputeRunway(base.Cash, newBurn)
	}

	return model.Result{
		NewHires:            newHires,
		HireCostChange:      hireCostChange,
		NewMonthlyMarketing: newMarketing,
		NewExpenses:         newExpenses,
		NewPrice:            newPrice,
		NewRevenue:          newRevenue,
		NewMonthlyBurn:      newBurn,
		NewRunway:           newRunway,
		NewProfit:           newRevenue.Sub(newExpenses),
		Baseline:            base.Snapshot(),
	}
}

// SimulateAll runs each delta against the same baseline, preserving order.
func SimulateAll(base *model.Finances, deltas []model.Delta) []model.Result {
	out := make([]model.Result, len(deltas))
	for i, d := range deltas {
		out[i] = Simulate(base, d)
	}
	return out
}
