package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/tui/components"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBaselineTab(cw int) string {
	t := theme.Active
	f := a.baseline
	cur := a.currency
	var b strings.Builder

	// Row 1: headline cards
	runwayNote := "at current burn"
	if f.Runway.Unbounded() {
		runwayNote = "not burning cash"
	}
	cards := []components.Metric{
		{Label: "Cash", Value: cli.FormatMoney(cur, f.Cash)},
		{Label: "Monthly burn", Value: cli.FormatMoney(cur, f.MonthlyBurn)},
		{Label: "Runway", Value: cli.FormatRunway(f.Runway), Delta: runwayNote},
		{Label: "Hires", Value: cli.FormatNumber(f.CurrentHires),
			Delta: cli.FormatMoney(cur, f.AvgCostPerHire) + " each"},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: monthly P&L + source
	halves := components.LayoutRow(cw, 2)
	cardW := halves[0]
	if a.isCompactLayout() {
		cardW = cw
	}
	innerW := components.CardInnerWidth(cardW)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	line := func(label, value string) string {
		gap := max(innerW-lipgloss.Width(label)-lipgloss.Width(value), 1)
		return labelStyle.Render(label) +
			lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) +
			valueStyle.Render(value)
	}

	var pl strings.Builder
	pl.WriteString(line("Revenue", cli.FormatMoney(cur, f.Revenue)) + "\n")
	pl.WriteString(line("Expenses", cli.FormatMoney(cur, f.Expenses)) + "\n")
	pl.WriteString(line("  of which marketing", cli.FormatMoney(cur, f.MonthlyMarketing)) + "\n")
	pl.WriteString(line("Price × units", fmt.Sprintf("%s × %s",
		cli.FormatMoney(cur, f.BaselinePrice), cli.FormatNumber(f.UnitsSold))) + "\n\n")

	coverage := 0.0
	if f.Expenses.IsPositive() {
		coverage = f.Revenue.Div(f.Expenses).InexactFloat64()
	}
	pl.WriteString(components.CoverageBar("Covered", coverage, 8, max(innerW-15, 5)))

	var src strings.Builder
	src.WriteString(line("File", a.baseline.Source) + "\n")
	how := "parsed"
	if a.loadRes != nil && a.loadRes.CacheHit {
		how = "cache hit"
	}
	src.WriteString(line("Loaded", fmt.Sprintf("%s in %s", how, a.loadTime.Round(time.Millisecond))) + "\n")
	src.WriteString(line("Fields", cli.FormatNumber(int64(len(f.Keys)))) + "\n")
	for _, k := range f.Extra() {
		v, _ := f.Lookup(k)
		src.WriteString(line(k, cli.FormatValue(v)) + "\n")
	}

	srcBody := strings.TrimRight(src.String(), "\n")
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Monthly P&L", pl.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Source", srcBody, cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Monthly P&L", pl.String(), halves[0]),
			components.ContentCard("Source", srcBody, halves[1]),
		}))
	}
	b.WriteString("\n")

	if len(a.history) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
		b.WriteString(hint.Render("  Press n to try a scenario."))
	}

	return b.String()
}
