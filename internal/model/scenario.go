package model

import "github.com/shopspring/decimal"

// Delta is one set of hypothetical changes applied to a baseline.
type Delta struct {
	AddHires       int64           `json:"add_hires"`
	DeltaMarketing decimal.Decimal `json:"delta_marketing"`
	PriceChangePct decimal.Decimal `json:"price_change_pct"`
}

// NewDelta builds a Delta from plain numbers, as supplied by flags and forms.
func NewDelta(addHires int64, deltaMarketing, priceChangePct float64) Delta {
	return Delta{
		AddHires:       addHires,
		DeltaMarketing: decimal.NewFromFloat(deltaMarketing),
		PriceChangePct: decimal.NewFromFloat(priceChangePct),
	}
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d.AddHires <= 0 && d.DeltaMarketing.IsZero() && d.PriceChangePct.IsZero()
}

// Snapshot is the slice of the baseline kept on a Result for before/after
// comparison.
type Snapshot struct {
	Cash        decimal.Decimal `json:"cash"`
	MonthlyBurn decimal.Decimal `json:"monthly_burn"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	Runway      Runway          `json:"runway"`
}

// Result is the outcome of applying a Delta to a baseline. Results are
// values: built once per simulation and never mutated.
type Result struct {
	NewHires            int64           `json:"new_hires"`
	HireCostChange      decimal.Decimal `json:"hire_cost_change"`
	NewMonthlyMarketing decimal.Decimal `json:"new_monthly_marketing"`
	NewExpenses         decimal.Decimal `json:"new_expenses"`
	NewPrice            decimal.Decimal `json:"new_price"`
	NewRevenue          decimal.Decimal `json:"new_revenue"`
	NewMonthlyBurn      decimal.Decimal `json:"new_monthly_burn"`
	NewRunway           Runway          `json:"new_runway"`
	NewProfit           decimal.Decimal `json:"new_profit"`

	Baseline Snapshot `json:"baseline"`
}

// Report metric names, in export order.
const (
	MetricRunwayBefore   = "runway_before"
	MetricRunwayAfter    = "runway_after"
	MetricRevenueBefore  = "revenue_before"
	MetricRevenueAfter   = "revenue_after"
	MetricExpensesBefore = "expenses_before"
	MetricExpensesAfter  = "expenses_after"
)

// ReportRow is one metric,value line of the exported report.
type ReportRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Report returns the six before/after rows of the short report.
func (r Result) Report() []ReportRow {
	return []ReportRow{
		{MetricRunwayBefore, r.Baseline.Runway.CSV()},
		{MetricRunwayAfter, r.NewRunway.CSV()},
		{MetricRevenueBefore, r.Baseline.Revenue.String()},
		{MetricRevenueAfter, r.NewRevenue.String()},
		{MetricExpensesBefore, r.Baseline.Expenses.String()},
		{MetricExpensesAfter, r.NewExpenses.String()},
	}
}
