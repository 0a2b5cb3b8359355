package components

import (
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForCoverage returns red/orange/yellow/green as revenue approaches and
// passes monthly expenses.
func ColorForCoverage(ratio float64) string {
	t := theme.Active
	switch {
	case ratio >= 1:
		return string(t.Gain)
	case ratio >= 0.8:
		return string(t.Warn)
	case ratio >= 0.5:
		return string(t.After)
	default:
		return string(t.Loss)
	}
}

// CoverageBar renders a labelled bar showing revenue as a share of
// expenses. The bar saturates at 100%; the printed percentage does not.
func CoverageBar(label string, ratio float64, labelW, barWidth int) string {
	t := theme.Active

	ratio = max(ratio, 0)
	color := ColorForCoverage(ratio)

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(min(ratio, 1)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", ratio*100))
}
