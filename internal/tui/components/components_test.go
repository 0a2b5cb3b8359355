package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func months(n int64) model.Runway {
	return model.FiniteRunway(decimal.NewFromInt(n))
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 44 {
			t.Errorf("line %d width = %d, want 44", i, lipgloss.Width(line))
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d padding has no background styling", i)
		}
	}
}

func TestCardRowSkipsEmpty(t *testing.T) {
	card := ContentCard("Only", "x", 20)
	if got := CardRow([]string{"", card, ""}); got != card {
		t.Error("CardRow with one non-empty card should return it unchanged")
	}
	if CardRow(nil) != "" {
		t.Error("CardRow(nil) should be empty")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Cash", Value: "₹100,000"},
		{Label: "Runway", Value: "∞", Delta: "was 5.0 mo"},
		{Label: "Hires", Value: "5"},
	}, 91)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 91 {
			t.Errorf("line %d width = %d, want 91", i, w)
		}
	}
	if !strings.Contains(row, "₹100,000") || !strings.Contains(row, "was 5.0 mo") {
		t.Error("metric row lost its values")
	}
}

func TestHBar(t *testing.T) {
	bar := HBar(5, 10, 20, theme.Active.Before)
	if got := strings.Count(bar, "█"); got != 10 {
		t.Errorf("filled cells = %d, want 10", got)
	}
	if got := strings.Count(bar, "░"); got != 10 {
		t.Errorf("track cells = %d, want 10", got)
	}
	if got := strings.Count(HBar(50, 10, 20, theme.Active.Before), "█"); got != 20 {
		t.Errorf("overflow filled = %d, want clamped to 20", got)
	}
	if got := strings.Count(HBar(3, 0, 20, theme.Active.Before), "█"); got != 0 {
		t.Errorf("zero max filled = %d, want 0", got)
	}
}

func TestRunwayChart(t *testing.T) {
	chart := RunwayChart(months(10), months(5), 61)
	lines := strings.Split(chart, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	before, after := strings.Count(lines[0], "█"), strings.Count(lines[1], "█")
	if before != 2*after {
		t.Errorf("before=%d after=%d cells, want before twice after", before, after)
	}
	if !strings.Contains(lines[0], "10.0 mo") || !strings.Contains(lines[1], "5.0 mo") {
		t.Errorf("chart missing labels:\n%s", chart)
	}
}

func TestRunwayChart_Unbounded(t *testing.T) {
	chart := RunwayChart(months(5), model.UnboundedRunway(), 60)
	lines := strings.Split(chart, "\n")
	if strings.Count(lines[1], "█") != 0 {
		t.Error("unbounded runway should plot as an empty bar")
	}
	if !strings.Contains(lines[1], "∞") {
		t.Error("unbounded runway should be labelled ∞")
	}
}

func TestRunwayTone(t *testing.T) {
	th := theme.Active
	if RunwayTone(months(5), months(6)) != th.Gain {
		t.Error("longer runway should be a gain")
	}
	if RunwayTone(months(5), months(4)) != th.Loss {
		t.Error("shorter runway should be a loss")
	}
	if RunwayTone(months(5), model.UnboundedRunway()) != th.Gain {
		t.Error("unbounded runway should be a gain over a finite one")
	}
	if RunwayTone(months(5), months(5)) != th.TextDim {
		t.Error("unchanged runway should be neutral")
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{0, 5, 10}, theme.Active.After)
	for _, r := range []string{"▁", "▄", "█"} {
		if !strings.Contains(s, r) {
			t.Errorf("sparkline %q missing %s", s, r)
		}
	}
	if Sparkline(nil, theme.Active.After) != "" {
		t.Error("empty sparkline should render nothing")
	}
	if !strings.Contains(Sparkline([]float64{0, 0}, theme.Active.After), "▁▁") {
		t.Error("all-zero sparkline should be flat")
	}
}

func TestColorForCoverage(t *testing.T) {
	th := theme.Active
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.2, string(th.Gain)},
		{1, string(th.Gain)},
		{0.85, string(th.Warn)},
		{0.6, string(th.After)},
		{0.1, string(th.Loss)},
	}
	for _, tt := range tests {
		if got := ColorForCoverage(tt.ratio); got != tt.want {
			t.Errorf("ColorForCoverage(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestCoverageBarPercent(t *testing.T) {
	if bar := CoverageBar("Covered", 0.714, 8, 20); !strings.Contains(bar, "71%") {
		t.Errorf("coverage bar %q missing 71%%", bar)
	}
	if bar := CoverageBar("Covered", 1.5, 8, 20); !strings.Contains(bar, "150%") {
		t.Errorf("coverage bar %q should print the unsaturated percentage", bar)
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(120, StatusInfo{Source: "finances.csv", Scenarios: 3, Message: "report saved"})
	if w := lipgloss.Width(bar); w != 120 {
		t.Errorf("width = %d, want 120", w)
	}
	for _, want := range []string{"Scenarios tested: 3", "finances.csv", "report saved", "[q]uit"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q", want)
		}
	}

	bar = RenderStatusBar(120, StatusInfo{Source: "finances.csv", Refreshing: true})
	if !strings.Contains(bar, "reloading") || strings.Contains(bar, "finances.csv") {
		t.Errorf("refreshing status bar = %q", bar)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('b') != TabBaseline || TabIdxByKey('s') != TabScenario || TabIdxByKey('h') != TabHistory {
		t.Error("tab shortcut keys do not match tab indexes")
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
}
