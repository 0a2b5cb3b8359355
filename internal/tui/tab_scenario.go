package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/tui/components"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderScenarioTab(cw int) string {
	t := theme.Active

	run, ok := a.currentRun()
	if !ok {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Scenario",
			muted.Render("No scenario yet. Press n to enter hires, marketing and price changes."), cw)
	}

	r := run.Result
	cur := a.currency
	var b strings.Builder

	// Row 1: after-scenario cards
	cards := []components.Metric{
		{
			Label: "Runway",
			Value: cli.FormatRunway(r.NewRunway),
			Delta: "was " + cli.FormatRunway(r.Baseline.Runway),
			Tone:  components.RunwayTone(r.Baseline.Runway, r.NewRunway),
		},
		{
			Label: "Monthly burn",
			Value: cli.FormatMoney(cur, r.NewMonthlyBurn),
			Delta: cli.FormatMoneyDelta(cur, r.NewMonthlyBurn.Sub(r.Baseline.MonthlyBurn)),
			Tone:  costTone(r.NewMonthlyBurn.Sub(r.Baseline.MonthlyBurn)),
		},
		{
			Label: "Revenue",
			Value: cli.FormatMoney(cur, r.NewRevenue),
			Delta: cli.FormatMoneyDelta(cur, r.NewRevenue.Sub(r.Baseline.Revenue)),
			Tone:  costTone(r.NewRevenue.Sub(r.Baseline.Revenue).Neg()),
		},
		{
			Label: "Expenses",
			Value: cli.FormatMoney(cur, r.NewExpenses),
			Delta: cli.FormatMoneyDelta(cur, r.NewExpenses.Sub(r.Baseline.Expenses)),
			Tone:  costTone(r.NewExpenses.Sub(r.Baseline.Expenses)),
		},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: runway chart
	b.WriteString(components.ContentCard(fmt.Sprintf("Runway (months) · scenario #%d", run.Seq),
		components.RunwayChart(r.Baseline.Runway, r.NewRunway, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")

	// Row 3: inputs + summary
	halves := components.LayoutRow(cw, 2)
	inputs := renderInputs(run.Delta, r, cur)
	summary := renderSummary(r, cur)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Inputs", inputs, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Summary", summary, cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Inputs", inputs, halves[0]),
			components.ContentCard("Summary", summary, halves[1]),
		}))
	}

	return b.String()
}

// costTone colors an increase in cost as a loss and a decrease as a gain.
func costTone(change decimal.Decimal) lipgloss.Color {
	t := theme.Active
	switch change.Sign() {
	case 1:
		return t.Loss
	case -1:
		return t.Gain
	default:
		return t.TextDim
	}
}

func renderInputs(d model.Delta, r model.Result, cur string) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := []struct{ label, value string }{
		{"Add hires", fmt.Sprintf("+%d (%s/mo)", max(d.AddHires, 0), cli.FormatMoneyDelta(cur, r.HireCostChange))},
		{"Marketing", cli.FormatMoneyDelta(cur, d.DeltaMarketing)},
		{"Price", fmt.Sprintf("%s → %s", cli.FormatPercent(d.PriceChangePct), cli.FormatMoney(cur, r.NewPrice))},
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-11s", row.label)))
		b.WriteString(valueStyle.Render(row.value))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderSummary shows the markdown summary with the emphasis markers
// stripped, one line per metric.
func renderSummary(r model.Result, cur string) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := strings.Split(pipeline.FormatSummary(r, cur), "\n\n")
	for i, l := range lines {
		lines[i] = style.Render(strings.ReplaceAll(l, "**", ""))
	}
	return strings.Join(lines, "\n")
}
