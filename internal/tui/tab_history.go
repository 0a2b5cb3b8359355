package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/tui/components"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// historyState holds the history tab cursor.
type historyState struct {
	cursor int
	offset int // scroll offset for the list
}

func (h *historyState) up() {
	if h.cursor > 0 {
		h.cursor--
	}
}

func (h *historyState) down(n int) {
	if h.cursor < n-1 {
		h.cursor++
	}
}

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active

	if len(a.history) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("History", muted.Render("No scenarios run this session."), cw)
	}

	cur := a.currency
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	format := "%-4s %-8s %6s %14s %9s %10s %10s"

	var body strings.Builder

	// Trend of after-runways, oldest first.
	trend := make([]float64, len(a.history))
	for i, run := range a.history {
		trend[i] = run.Result.NewRunway.ChartMonths()
	}
	body.WriteString(mutedStyle.Render("Runway trend  "))
	body.WriteString(components.Sparkline(trend, t.After))
	body.WriteString("\n\n")

	body.WriteString(headerStyle.Render(fmt.Sprintf(format, "#", "Time", "Hires", "Marketing", "Price", "Runway", "Was")))
	body.WriteString("\n")

	visible := max(h-8, 3) // card border (2) + trend (2) + header (1) + footer (2)
	offset := a.hist.offset
	if a.hist.cursor < offset {
		offset = a.hist.cursor
	}
	if a.hist.cursor >= offset+visible {
		offset = a.hist.cursor - visible + 1
	}
	end := min(offset+visible, len(a.history))

	for i := offset; i < end; i++ {
		run := a.history[i]
		marker := fmt.Sprintf("%d", run.Seq)
		if i == a.current {
			marker += "*"
		}
		line := fmt.Sprintf(format,
			marker,
			run.At.Local().Format("15:04:05"),
			fmt.Sprintf("+%d", max(run.Delta.AddHires, 0)),
			cli.FormatMoneyDelta(cur, run.Delta.DeltaMarketing),
			cli.FormatPercent(run.Delta.PriceChangePct),
			cli.FormatRunway(run.Result.NewRunway),
			cli.FormatRunway(run.Result.Baseline.Runway),
		)
		if lipgloss.Width(line) > innerW {
			line = truncStr(line, innerW)
		}
		if i == a.hist.cursor {
			body.WriteString(selectedStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render("j/k select · enter open · * is shown on the Scenario tab"))

	return components.ContentCard(fmt.Sprintf("History (%d)", len(a.history)), body.String(), cw)
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
