package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func writeBaseline(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finances.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func exampleBaseline(t *testing.T) string {
	t.Helper()
	return writeBaseline(t,
		"key,value",
		"cash,100000",
		"monthly_burn,20000",
		"revenue,50000",
		"expenses,70000",
		"monthly_marketing,10000",
		"current_hires,5",
		"avg_cost_per_hire,2000",
		"baseline_price,100",
		"units_sold,500",
		"company,Acme",
	)
}

// loadedApp returns an App that has received its first baseline and a
// window size.
func loadedApp(t *testing.T) App {
	t.Helper()
	path := exampleBaseline(t)
	a := NewApp(Options{DataFile: path, ReportPath: filepath.Join(t.TempDir(), pipeline.ReportFileName)})

	res, err := pipeline.LoadBaseline(path, nil)
	if err != nil {
		t.Fatalf("LoadBaseline: %v", err)
	}
	a = update(t, a, DataLoadedMsg{Result: res})
	return update(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Defaults(t *testing.T) {
	a := NewApp(Options{DataFile: "x.csv"})
	if a.currency != pipeline.DefaultCurrency {
		t.Errorf("currency = %q, want %q", a.currency, pipeline.DefaultCurrency)
	}
	if a.limits != config.DefaultConfig().Limits {
		t.Errorf("limits = %+v, want defaults", a.limits)
	}
	if a.reportPath != pipeline.ReportFileName {
		t.Errorf("reportPath = %q, want %q", a.reportPath, pipeline.ReportFileName)
	}
	if a.current != -1 || a.Scenarios() != 0 {
		t.Errorf("current=%d scenarios=%d, want -1 and 0", a.current, a.Scenarios())
	}
}

func TestApp_BaselineView(t *testing.T) {
	a := loadedApp(t)
	view := a.View()

	for _, want := range []string{"Baseline", "₹100,000", "5.0 mo", "Acme", "Scenarios tested: 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("baseline view missing %q", want)
		}
	}
}

func TestApp_RunScenarioCountsAndSwitchesTab(t *testing.T) {
	a := loadedApp(t)
	a.runScenario(model.NewDelta(2, 5000, 10))
	a.runScenario(model.NewDelta(0, 0, 100))

	if a.Scenarios() != 2 {
		t.Fatalf("Scenarios() = %d, want 2", a.Scenarios())
	}
	if a.activeTab != components.TabScenario {
		t.Errorf("activeTab = %d, want Scenario", a.activeTab)
	}
	run, ok := a.currentRun()
	if !ok || run.Seq != 2 {
		t.Fatalf("current run = %+v, want #2", run)
	}
	if !run.Result.NewRunway.Unbounded() {
		t.Errorf("NewRunway = %s, want unbounded", run.Result.NewRunway)
	}

	view := a.View()
	for _, want := range []string{"Scenarios tested: 2", "∞", "was 5.0 mo", "Non-positive net burn"} {
		if !strings.Contains(view, want) {
			t.Errorf("scenario view missing %q", want)
		}
	}
}

func TestApp_ScenarioTabBeforeAnyRun(t *testing.T) {
	a := loadedApp(t)
	a = update(t, a, keyMsg("s"))
	if a.activeTab != components.TabScenario {
		t.Fatalf("activeTab = %d, want Scenario", a.activeTab)
	}
	if !strings.Contains(a.View(), "No scenario yet") {
		t.Error("empty scenario tab missing hint")
	}
}

func TestApp_HistoryNavigation(t *testing.T) {
	a := loadedApp(t)
	a.runScenario(model.NewDelta(1, 0, 0))
	a.runScenario(model.NewDelta(2, 0, 0))
	a.runScenario(model.NewDelta(3, 0, 0))

	a = update(t, a, keyMsg("h"))
	if a.activeTab != components.TabHistory {
		t.Fatalf("activeTab = %d, want History", a.activeTab)
	}
	if a.hist.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", a.hist.cursor)
	}

	a = update(t, a, keyMsg("k"))
	a = update(t, a, keyMsg("k"))
	a = update(t, a, keyMsg("k"))
	if a.hist.cursor != 0 {
		t.Errorf("cursor = %d, want clamped at 0", a.hist.cursor)
	}

	a = update(t, a, keyMsg("enter"))
	if a.current != 0 || a.activeTab != components.TabScenario {
		t.Errorf("current=%d tab=%d, want 0 and Scenario", a.current, a.activeTab)
	}
	if a.Scenarios() != 3 {
		t.Errorf("opening a past scenario changed the count to %d", a.Scenarios())
	}
}

func TestApp_NewScenarioFormOpensAndCancels(t *testing.T) {
	a := loadedApp(t)
	a.runScenario(model.NewDelta(2, 5000, 10))

	a = update(t, a, keyMsg("n"))
	if a.form == nil {
		t.Fatal("n did not open the scenario form")
	}
	if a.formVals.hires != "2" || a.formVals.marketing != "5000" || a.formVals.pricePct != "10" {
		t.Errorf("form not prefilled from current scenario: %+v", *a.formVals)
	}

	// Keys go to the form, not the app.
	a = update(t, a, keyMsg("q"))
	if a.form == nil {
		t.Fatal("q closed the form")
	}

	a = update(t, a, keyMsg("esc"))
	if a.form != nil {
		t.Error("esc did not close the form")
	}
	if a.Scenarios() != 1 {
		t.Errorf("cancelled form changed the count to %d", a.Scenarios())
	}
}

func TestApp_ExportWithoutScenario(t *testing.T) {
	a := loadedApp(t)
	m, cmd := a.Update(keyMsg("e"))
	if cmd != nil {
		t.Error("export with no scenario returned a command")
	}
	if got := m.(App).message; got != "run a scenario first" {
		t.Errorf("message = %q", got)
	}
}

func TestApp_ExportWritesReport(t *testing.T) {
	a := loadedApp(t)
	a.runScenario(model.NewDelta(2, 5000, 10))

	_, cmd := a.Update(keyMsg("e"))
	if cmd == nil {
		t.Fatal("export returned no command")
	}
	msg, ok := cmd().(ReportSavedMsg)
	if !ok {
		t.Fatalf("command produced %T, want ReportSavedMsg", msg)
	}
	if msg.Err != nil {
		t.Fatalf("export: %v", msg.Err)
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "metric,value\nrunway_before,5\n") {
		t.Errorf("unexpected report:\n%s", data)
	}

	a = update(t, a, msg)
	if !strings.Contains(a.message, "report saved") {
		t.Errorf("message = %q", a.message)
	}
}

func TestApp_RefreshRerunsCurrentScenario(t *testing.T) {
	a := loadedApp(t)
	a.runScenario(model.NewDelta(0, 0, 0))

	path := writeBaseline(t, "key,value", "cash,300000", "monthly_burn,20000", "expenses,70000",
		"baseline_price,100", "units_sold,500")
	res, err := pipeline.LoadBaseline(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	a = update(t, a, RefreshDataMsg{Result: res})

	run, _ := a.currentRun()
	months, ok := run.Result.Baseline.Runway.Months()
	if !ok || months.IntPart() != 15 {
		t.Errorf("baseline runway after reload = %s, want 15", run.Result.Baseline.Runway)
	}
	if a.Scenarios() != 1 {
		t.Errorf("reload changed the count to %d", a.Scenarios())
	}
}

func TestApp_RefreshErrorKeepsBaseline(t *testing.T) {
	a := loadedApp(t)
	before := a.baseline

	a = update(t, a, RefreshDataMsg{Err: errors.New("file vanished")})
	if a.baseline != before {
		t.Error("failed reload replaced the baseline")
	}
	if a.loadErr != nil {
		t.Errorf("loadErr = %v, want nil while a baseline is shown", a.loadErr)
	}
	if !strings.Contains(a.message, "file vanished") {
		t.Errorf("message = %q", a.message)
	}
}

func TestApp_LoadErrorView(t *testing.T) {
	a := NewApp(Options{DataFile: "missing.csv"})
	a = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = update(t, a, DataLoadedMsg{Err: errors.New("open missing.csv: no such file")})

	view := a.View()
	if !strings.Contains(view, "Could not load baseline") || !strings.Contains(view, "no such file") {
		t.Errorf("load error view:\n%s", view)
	}

	// Scenario keys are inert without a baseline.
	a = update(t, a, keyMsg("n"))
	if a.form != nil {
		t.Error("form opened without a baseline")
	}
}

func TestApp_TooNarrow(t *testing.T) {
	a := loadedApp(t)
	a = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Error("narrow terminal did not show the width warning")
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 10); got != -1 {
			t.Errorf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestTabBarWidthMatchesHitboxes(t *testing.T) {
	bar := components.RenderTabBar(components.TabScenario, 0)
	want := 0
	for i, tab := range components.Tabs {
		want += components.TabVisualWidth(tab, i == components.TabScenario)
	}
	want += len(components.Tabs) - 1
	if got := lipgloss.Width(bar); got != want {
		t.Errorf("tab bar width = %d, want %d", got, want)
	}
}
