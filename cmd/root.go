package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/pipeline"
	"github.com/theirongolddev/cfohelper/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataFile string
	flagNoCache  bool
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "cfohelper",
	Short: "What-if runway calculator",
	Long:  "Load a key,value finance baseline and explore how hiring, marketing and pricing change monthly burn and runway.",
	RunE:  runBaseline,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "file", "f", "", "Baseline CSV (default from config, then data/finances.csv)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the baseline cache, always reparse")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig returns the effective configuration with --file applied.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Config error, using defaults: %v\n", err)
	}
	if flagDataFile != "" {
		cfg.General.DataFile = flagDataFile
	}
	return cfg
}

// openCache opens the configured cache backend. A nil backend means loads
// go straight to the file.
func openCache(ctx context.Context, cfg config.Config) store.Backend {
	if flagNoCache {
		return nil
	}
	cache, err := store.OpenBackend(ctx, cfg.Cache)
	if err != nil {
		// Cache open failed: fall back to uncached
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Cache unavailable (%v), reading file directly\n", err)
		}
		return nil
	}
	return cache
}

// loadBaseline is the shared baseline loading path used by all commands.
func loadBaseline(cfg config.Config) (*pipeline.CachedLoadResult, error) {
	path := cfg.General.DataFile
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", path)
	}

	cache := openCache(context.Background(), cfg)
	if cache != nil {
		defer cache.Close()
	}

	res, err := pipeline.LoadBaseline(path, cache)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		how := "parsed"
		if res.CacheHit {
			how = "from cache"
		}
		fmt.Fprintf(os.Stderr, "  Loaded %d fields (%s)\n", len(res.Finances.Keys), how)
	}
	return res, nil
}
