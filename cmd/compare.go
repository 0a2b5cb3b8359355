package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/cli"
	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/pipeline"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <scenarios.yaml>",
	Short: "Run a batch of named scenarios side by side",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&flagNoLimits, "no-limits", false, "Accept inputs outside the configured limits")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, args []string) error {
	scenarios, err := config.LoadScenarios(args[0])
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}

	cfg := loadConfig()
	deltas := make([]model.Delta, len(scenarios))
	for i, sc := range scenarios {
		deltas[i] = sc.Delta()
		if flagNoLimits {
			continue
		}
		if err := cfg.Limits.Check(deltas[i]); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	res, err := loadBaseline(cfg)
	if err != nil {
		return err
	}
	base := res.Finances
	results := pipeline.SimulateAll(base, deltas)
	cur := cfg.General.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COMPARE  %d scenarios", len(scenarios))))
	fmt.Println()

	rows := [][]string{
		{
			"baseline",
			cli.FormatNumber(base.CurrentHires),
			cli.FormatMoney(cur, base.Expenses),
			cli.FormatMoney(cur, base.Revenue),
			cli.FormatMoney(cur, base.Revenue.Sub(base.Expenses)),
			cli.FormatRunway(base.Runway),
		},
		{"---"},
	}
	for i, r := range results {
		rows = append(rows, []string{
			scenarios[i].Name,
			cli.FormatNumber(r.NewHires),
			cli.FormatMoney(cur, r.NewExpenses),
			cli.FormatMoney(cur, r.NewRevenue),
			cli.FormatMoney(cur, r.NewProfit),
			cli.FormatRunway(r.NewRunway),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Scenario", "Hires", "Expenses", "Revenue", "Profit", "Runway"},
		Rows:    rows,
	}))

	best := 0
	for i := range results {
		if results[i].NewRunway.Cmp(results[best].NewRunway) > 0 {
			best = i
		}
	}
	fmt.Printf("\n  Longest runway: %s (%s)\n", scenarios[best].Name, cli.FormatRunway(results[best].NewRunway))
	return nil
}
