package components

import (
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the session.
type StatusInfo struct {
	Source     string
	Scenarios  int
	Refreshing bool
	Message    string // transient notice, e.g. "report saved"
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	noticeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	left := " [n]ew scenario  [e]xport  [r]eload  [?]help  [q]uit"
	if info.Message != "" {
		left += "  " + noticeStyle.Render(info.Message)
	}

	right := fmt.Sprintf("Scenarios tested: %d ", info.Scenarios)
	if info.Refreshing {
		right = "reloading…  " + right
	} else if info.Source != "" {
		right = info.Source + "  " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(fmt.Sprintf("%*s", padding, "")) + right
	return style.Render(bar)
}
