package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// HBar renders a horizontal bar of value scaled so maxVal fills width.
// The unfilled remainder is drawn as a dim track.
func HBar(value, maxVal float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width < 1 {
		return ""
	}

	filled := 0
	if maxVal > 0 {
		filled = int(value / maxVal * float64(width))
	}
	filled = min(max(filled, 0), width)

	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	return barStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))
}

// RunwayChart renders the before/after runway comparison as two horizontal
// bars. An unbounded runway plots as an empty bar labelled "∞".
func RunwayChart(before, after model.Runway, width int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	b, a := before.ChartMonths(), after.ChartMonths()
	maxVal := max(b, a)

	const labelW, valueW = 7, 10
	barW := max(width-labelW-valueW-2, 5)

	row := func(label string, v float64, r model.Runway, color lipgloss.Color) string {
		return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
			spaceStyle.Render(" ") +
			HBar(v, maxVal, barW, color) +
			spaceStyle.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatRunway(r)))
	}

	return row("Before", b, before, t.Before) + "\n" +
		row("After", a, after, t.After)
}

// RunwayTone picks the color for a runway change: longer is a gain.
func RunwayTone(before, after model.Runway) lipgloss.Color {
	t := theme.Active
	switch after.Cmp(before) {
	case 1:
		return t.Gain
	case -1:
		return t.Loss
	default:
		return t.TextDim
	}
}
