package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagHires     int64
	flagMarketing float64
	flagPricePct  float64
	flagFormat    string
	flagReport    string
	flagNoLimits  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one what-if scenario against the baseline",
	Example: `  cfohelper simulate --hires 2 --marketing 5000 --price-pct 10
  cfohelper simulate --price-pct 25 --format markdown --report out.csv`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&flagHires, "hires", 0, "Hires to add")
	simulateCmd.Flags().Float64Var(&flagMarketing, "marketing", 0, "Change in monthly marketing spend")
	simulateCmd.Flags().Float64Var(&flagPricePct, "price-pct", 0, "Price change in percent")
	simulateCmd.Flags().StringVar(&flagFormat, "format", "table", "Output format: table, markdown or json")
	simulateCmd.Flags().StringVar(&flagReport, "report", "", "Also write the metric,value report CSV to this path")
	simulateCmd.Flags().BoolVar(&flagNoLimits, "no-limits", false, "Accept inputs outside the configured limits")
	rootCmd.AddCommand(simulateCmd)
}

// simulateOutput is the --format json document.
type simulateOutput struct {
	Input   model.Delta       `json:"input"`
	Result  model.Result      `json:"result"`
	Summary string            `json:"summary"`
	Report  []model.ReportRow `json:"report"`
}

func runSimulate(_ *cobra.Command, _ []string) error {
	switch flagFormat {
	case "table", "markdown", "json":
	default:
		return fmt.Errorf("unknown format %q (want table, markdown or json)", flagFormat)
	}

	cfg := loadConfig()
	d := model.NewDelta(flagHires, flagMarketing, flagPricePct)
	if !flagNoLimits {
		if err := cfg.Limits.Check(d); err != nil {
			return fmt.Errorf("%w; pass --no-limits to run it anyway", err)
		}
	}

	res, err := loadBaseline(cfg)
	if err != nil {
		return err
	}
	r := pipeline.Simulate(res.Finances, d)
	cur := cfg.General.Currency

	switch flagFormat {
	case "json":
		out := simulateOutput{
			Input:   d,
			Result:  r,
			Summary: pipeline.FormatSummary(r, cur),
			Report:  r.Report(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "markdown":
		fmt.Println(pipeline.FormatSummary(r, cur))
	default:
		renderScenario(res.Finances, d, r, cur)
	}

	if flagReport != "" {
		if err := pipeline.WriteReportFile(flagReport, r); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Report written to %s\n", flagReport)
		}
	}
	return nil
}

func renderScenario(base *model.Finances, d model.Delta, r model.Result, cur string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIO  +%d hires  %s marketing  %s price",
		max(d.AddHires, 0), cli.FormatMoneyDelta(cur, d.DeltaMarketing), cli.FormatPercent(d.PriceChangePct))))
	fmt.Println()

	rows := [][]string{
		{"Hires", cli.FormatNumber(base.CurrentHires), cli.FormatNumber(r.NewHires), cli.FormatMoneyDelta(cur, r.HireCostChange)},
		{"Marketing (monthly)", cli.FormatMoney(cur, base.MonthlyMarketing), cli.FormatMoney(cur, r.NewMonthlyMarketing), cli.FormatMoneyDelta(cur, d.DeltaMarketing)},
		{"Expenses (monthly)", cli.FormatMoney(cur, base.Expenses), cli.FormatMoney(cur, r.NewExpenses), cli.FormatMoneyDelta(cur, r.NewExpenses.Sub(base.Expenses))},
		{"Price", cli.FormatMoney(cur, base.BaselinePrice), cli.FormatMoney(cur, r.NewPrice), cli.FormatPercent(d.PriceChangePct)},
		{"Revenue (monthly)", cli.FormatMoney(cur, base.Revenue), cli.FormatMoney(cur, r.NewRevenue), cli.FormatMoneyDelta(cur, r.NewRevenue.Sub(base.Revenue))},
		{"---"},
		{"Monthly burn", cli.FormatMoney(cur, base.MonthlyBurn), cli.FormatMoney(cur, r.NewMonthlyBurn), ""},
		{"Runway", cli.FormatRunway(base.Runway), cli.FormatRunway(r.NewRunway), ""},
		{"Monthly profit", "", cli.FormatMoney(cur, r.NewProfit), ""},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Before", "After", "Change"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Print(cli.RenderRunwayChart(r.Baseline.Runway, r.NewRunway, 40))

	if r.NewRunway.Unbounded() {
		fmt.Println("\n  Scenario is profitable: runway is unbounded.")
	}
}
