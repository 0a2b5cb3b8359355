// Package cmd implements the cfohelper CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var flagClearCache bool

func init() {
	configCmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "Drop the cached parse of the data file")
	rootCmd.AddCommand(configCmd)
}

// cacheEntries reports how many baselines b holds, first dropping the entry
// for dataFile when clear is set.
func cacheEntries(b store.Backend, dataFile string, clear bool) (int, error) {
	if clear {
		if err := b.Delete(dataFile); err != nil {
			return 0, fmt.Errorf("clearing cache entry for %s: %w", dataFile, err)
		}
	}
	return b.Count()
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDataFile != "" {
		cfg.General.DataFile = flagDataFile
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file: %s\n", cfg.General.DataFile)
	fmt.Printf("    Currency:  %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Backend: %s\n", cfg.Cache.Backend)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		fmt.Printf("    Redis:   %s\n", cfg.Cache.RedisAddr)
		if cfg.Cache.RedisTTL > 0 {
			fmt.Printf("    TTL:     %ds\n", cfg.Cache.RedisTTL)
		}
	case config.CacheNone:
	default:
		fmt.Printf("    Path:    %s\n", pipeline.CachePath())
	}
	if cfg.Cache.Backend != config.CacheNone {
		b, err := store.OpenBackend(context.Background(), cfg.Cache)
		if err != nil {
			fmt.Printf("    Entries: unavailable (%v)\n", err)
		} else {
			n, err := cacheEntries(b, cfg.General.DataFile, flagClearCache)
			_ = b.Close()
			if err != nil {
				return err
			}
			if flagClearCache {
				fmt.Printf("    Cleared: %s\n", cfg.General.DataFile)
			}
			fmt.Printf("    Entries: %d\n", n)
		}
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Limits]")
	fmt.Printf("    Hires:     0..%d\n", cfg.Limits.MaxHires)
	fmt.Printf("    Marketing: %g..%g\n", cfg.Limits.MarketingMin, cfg.Limits.MarketingMax)
	fmt.Printf("    Price %%:   %g..%g\n", cfg.Limits.PriceMinPct, cfg.Limits.PriceMaxPct)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `cfohelper setup` to reconfigure.")
	return nil
}
