package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/cli"

	"github.com/spf13/cobra"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the loaded baseline and current runway",
	RunE:  runBaseline,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	res, err := loadBaseline(cfg)
	if err != nil {
		return err
	}
	f := res.Finances
	cur := cfg.General.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle("BASELINE  " + f.Source))
	fmt.Println()

	rows := [][]string{
		{"Cash", cli.FormatMoney(cur, f.Cash)},
		{"Monthly burn", cli.FormatMoney(cur, f.MonthlyBurn)},
		{"Runway", cli.FormatRunway(f.Runway)},
		{"---"},
		{"Revenue (monthly)", cli.FormatMoney(cur, f.Revenue)},
		{"Expenses (monthly)", cli.FormatMoney(cur, f.Expenses)},
		{"Marketing (monthly)", cli.FormatMoney(cur, f.MonthlyMarketing)},
		{"---"},
		{"Hires", cli.FormatNumber(f.CurrentHires)},
		{"Cost per hire", cli.FormatMoney(cur, f.AvgCostPerHire)},
		{"Price", cli.FormatMoney(cur, f.BaselinePrice)},
		{"Units sold", cli.FormatNumber(f.UnitsSold)},
	}

	if extra := f.Extra(); len(extra) > 0 {
		rows = append(rows, []string{"---"})
		for _, k := range extra {
			v, _ := f.Lookup(k)
			rows = append(rows, []string{k, cli.FormatValue(v)})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if f.Runway.Unbounded() {
		fmt.Println("\n  Not burning cash: runway is unbounded.")
	}
	return nil
}
