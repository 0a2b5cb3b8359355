// Package tui provides the interactive Bubble Tea what-if dashboard.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/tui/components"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the initial baseline load finishes.
type DataLoadedMsg struct {
	Result   *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// RefreshDataMsg is sent when a reload of the same source completes.
type RefreshDataMsg struct {
	Result   *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// ReportSavedMsg is sent when an export finishes.
type ReportSavedMsg struct {
	Path string
	Err  error
}

// Options configures a new App.
type Options struct {
	DataFile   string
	Cache      pipeline.BaselineCache // nil reads the file directly
	Currency   string
	Limits     config.LimitsConfig
	ReportPath string // defaults to pipeline.ReportFileName
}

// scenarioRun is one completed simulation in this session.
type scenarioRun struct {
	Seq    int
	Delta  model.Delta
	Result model.Result
	At     time.Time
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	baseline *model.Finances
	loadRes  *pipeline.CachedLoadResult
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Scenarios run this session. current indexes history, -1 before the
	// first run. scenarios counts completed runs.
	history   []scenarioRun
	current   int
	scenarios int

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string
	hist      historyState

	refreshing bool

	// Scenario input (huh form)
	form     *huh.Form
	formVals *scenarioValues // shared with form; App is copied on every Update

	spinner spinner.Model

	dataFile   string
	cache      pipeline.BaselineCache
	currency   string
	limits     config.LimitsConfig
	reportPath string
}

const (
	minTerminalWidth = 80
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Currency == "" {
		opts.Currency = pipeline.DefaultCurrency
	}
	if opts.Limits == (config.LimitsConfig{}) {
		opts.Limits = config.DefaultConfig().Limits
	}
	if opts.ReportPath == "" {
		opts.ReportPath = pipeline.ReportFileName
	}

	return App{
		current:    -1,
		spinner:    sp,
		dataFile:   opts.DataFile,
		cache:      opts.Cache,
		currency:   opts.Currency,
		limits:     opts.Limits,
		reportPath: opts.ReportPath,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataFile, a.cache),
		a.spinner.Tick,
	)
}

// Scenarios returns how many scenarios have been run this session.
func (a App) Scenarios() int { return a.scenarios }

func (a App) currentRun() (scenarioRun, bool) {
	if a.current < 0 || a.current >= len(a.history) {
		return scenarioRun{}, false
	}
	return a.history[a.current], true
}

// runScenario simulates d against the loaded baseline and records it.
func (a *App) runScenario(d model.Delta) {
	if a.baseline == nil {
		return
	}
	a.scenarios++
	a.history = append(a.history, scenarioRun{
		Seq:    a.scenarios,
		Delta:  d,
		Result: pipeline.Simulate(a.baseline, d),
		At:     time.Now(),
	})
	a.current = len(a.history) - 1
	a.hist.cursor = a.current
	a.activeTab = components.TabScenario
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.baseline == nil || a.showHelp || a.form != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		case tea.MouseButtonWheelUp:
			if a.activeTab == components.TabHistory {
				a.hist.up()
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == components.TabHistory {
				a.hist.down(len(a.history))
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Scenario form intercepts all keys
		if a.form != nil {
			if key == "esc" {
				a.form = nil
				return a, nil
			}
			return a.updateScenarioForm(msg)
		}

		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.message = ""

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.dataFile, a.cache)
			}
			return a, nil
		}

		// Everything below needs a baseline.
		if a.baseline == nil {
			return a, nil
		}

		switch key {
		case "n", "enter":
			if key == "enter" && a.activeTab == components.TabHistory && len(a.history) > 0 {
				a.current = a.hist.cursor
				a.activeTab = components.TabScenario
				return a, nil
			}
			return a.openScenarioForm()
		case "e":
			run, ok := a.currentRun()
			if !ok {
				a.message = "run a scenario first"
				return a, nil
			}
			return a, exportReportCmd(a.reportPath, run.Result)
		case "j", "down":
			if a.activeTab == components.TabHistory {
				a.hist.down(len(a.history))
			}
			return a, nil
		case "k", "up":
			if a.activeTab == components.TabHistory {
				a.hist.up()
			}
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.setBaseline(msg.Result)
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			// Keep showing the last good baseline.
			if a.baseline == nil {
				a.loadErr = msg.Err
			}
			a.message = "reload failed: " + msg.Err.Error()
			return a, nil
		}
		a.loadErr = nil
		a.setBaseline(msg.Result)
		a.message = "baseline reloaded"
		return a, nil

	case ReportSavedMsg:
		if msg.Err != nil {
			a.message = "export failed: " + msg.Err.Error()
		} else {
			a.message = "report saved to " + msg.Path
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateScenarioForm(msg)
	}

	return a, nil
}

// setBaseline installs a freshly loaded baseline. The selected scenario is
// re-run against it so the Scenario tab always compares against what is on
// screen; reruns are not counted as new scenarios.
func (a *App) setBaseline(res *pipeline.CachedLoadResult) {
	a.loadRes = res
	a.baseline = res.Finances
	if run, ok := a.currentRun(); ok {
		run.Result = pipeline.Simulate(a.baseline, run.Delta)
		a.history[a.current] = run
	}
}

func (a App) openScenarioForm() (tea.Model, tea.Cmd) {
	var d model.Delta
	if run, ok := a.currentRun(); ok {
		d = run.Delta
	}
	vals := valuesFromDelta(d)
	a.formVals = &vals
	a.form = newScenarioForm(a.limits, a.currency, a.formVals).WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) updateScenarioForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		d, err := a.formVals.delta()
		if err == nil {
			err = a.limits.Check(d)
		}
		if err != nil {
			a.message = err.Error()
			return a, nil
		}
		a.runScenario(d)
		return a, nil
	case huh.StateAborted:
		a.form = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) formWidth() int {
	return min(max(a.width-10, 40), 70)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.baseline == nil {
		return a.viewLoadError()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cfohelper needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cfohelper"))
	b.WriteString(subtitleStyle.Render(" · What-if runway"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading " + a.dataFile))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Loss).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 80))

	titleStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load baseline"))
	b.WriteString("\n\n")
	if a.loadErr != nil {
		b.WriteString(errStyle.Render(a.loadErr.Error()))
	}
	b.WriteString("\n\n")
	hint := "[r] retry  [q] quit"
	if a.refreshing {
		hint = "reloading…"
	}
	b.WriteString(hintStyle.Render(hint))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render(fmt.Sprintf("◈ Scenario #%d", a.scenarios+1)) + "\n\n" +
		a.form.View() + "\n" +
		hintStyle.Render("enter next · shift+tab back · esc cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"b s h", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in history"},
			{"Enter", "Open selected scenario"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"n", "New scenario"},
			{"e", "Export report to " + a.reportPath},
			{"r", "Reload baseline"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Source:     filepath.Base(a.baseline.Source),
		Scenarios:  a.scenarios,
		Refreshing: a.refreshing,
		Message:    a.message,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabScenario:
		content = a.renderScenarioTab(cw)
	case components.TabHistory:
		content = a.renderHistoryTab(cw, contentH)
	default:
		content = a.renderBaselineTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func loadDataCmd(path string, cache pipeline.BaselineCache) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := pipeline.LoadBaseline(path, cache)
		return DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

func refreshDataCmd(path string, cache pipeline.BaselineCache) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := pipeline.LoadBaseline(path, cache)
		return RefreshDataMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

func exportReportCmd(path string, r model.Result) tea.Cmd {
	return func() tea.Msg {
		return ReportSavedMsg{Path: path, Err: pipeline.WriteReportFile(path, r)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes match RenderTabBar: one separator column between tabs.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
