package pipeline

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the symbol used by PrettySummary.
const DefaultCurrency = "₹"

// ProfitableRunwayLine replaces the runway transition when the scenario no
// longer burns cash.
const ProfitableRunwayLine = "**Runway** → Non-positive net burn (profitable) — infinite runway."

// PrettySummary renders r as markdown lines using DefaultCurrency.
func PrettySummary(r model.Result) string {
	return FormatSummary(r, DefaultCurrency)
}

// FormatSummary renders r as markdown lines separated by blank lines, in
// fixed order: hires, marketing, expenses, revenue, runway, profit. Money is
// truncated to whole units. Runway is shown to one decimal; an unbounded
// old runway is left out and an unbounded new runway prints
// ProfitableRunwayLine.
func FormatSummary(r model.Result, currency string) string {
	lines := []string{
		fmt.Sprintf("**Hires** → %d (added cost %s)", r.NewHires, money(currency, r.HireCostChange)),
		fmt.Sprintf("**Marketing (monthly)** → %s", money(currency, r.NewMonthlyMarketing)),
		fmt.Sprintf("**Expenses (monthly)** → %s", money(currency, r.NewExpenses)),
		fmt.Sprintf("**Revenue (monthly)** → %s", money(currency, r.NewRevenue)),
		runwayLine(r.Baseline.Runway, r.NewRunway),
		fmt.Sprintf("**Monthly profit** → %s", money(currency, r.NewProfit)),
	}
	return strings.Join(lines, "\n\n")
}

func runwayLine(before, after model.Runway) string {
	if after.Unbounded() {
		return ProfitableRunwayLine
	}
	if before.Unbounded() {
		return fmt.Sprintf("**Runway** → %s months", after.Format(1))
	}
	return fmt.Sprintf("**Runway** → %s months → %s months", before.Format(1), after.Format(1))
}

func money(currency string, d decimal.Decimal) string {
	return cli.FormatMoney(currency, d)
}
