package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/tui"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIReport string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive what-if dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIReport, "report", "", "Path the e key exports to (default cfo_helper_report.csv)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	cache := openCache(context.Background(), cfg)
	if cache != nil {
		defer cache.Close()
	}

	app := tui.NewApp(tui.Options{
		DataFile:   cfg.General.DataFile,
		Cache:      cache,
		Currency:   cfg.General.Currency,
		Limits:     cfg.Limits,
		ReportPath: flagTUIReport,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
