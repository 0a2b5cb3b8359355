package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/source"
	"github.com/theirongolddev/cfohelper/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// otherFile is the select value that switches to free-text path entry.
const otherFile = "\x00other"

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	// Offer baselines found next to the configured one.
	files, _ := source.ScanDir(filepath.Dir(cfg.General.DataFile))
	dataChoice := cfg.General.DataFile
	customPath := cfg.General.DataFile

	var groups []*huh.Group
	if len(files) > 0 {
		opts := make([]huh.Option[string], 0, len(files)+1)
		for _, f := range files {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d fields)", f.Name, f.Rows), f.Path))
		}
		opts = append(opts, huh.NewOption("Other path…", otherFile))
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Baseline file").
				Description("key,value CSVs found in "+filepath.Dir(cfg.General.DataFile)).
				Options(opts...).
				Value(&dataChoice),
		))
	} else {
		dataChoice = otherFile
	}

	groups = append(groups,
		huh.NewGroup(
			huh.NewInput().
				Title("Baseline file path").
				Value(&customPath).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("path is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return dataChoice != otherFile }),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Description("Printed before every amount").
				Value(&cfg.General.Currency),
			huh.NewSelect[string]().
				Title("Baseline cache").
				Options(
					huh.NewOption("SQLite (local file)", config.CacheSQLite),
					huh.NewOption("Redis (shared)", config.CacheRedis),
					huh.NewOption("None", config.CacheNone),
				).
				Value(&cfg.Cache.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis address").
				Placeholder("127.0.0.1:6379").
				Value(&cfg.Cache.RedisAddr),
		).WithHideFunc(func() bool { return cfg.Cache.Backend != config.CacheRedis }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions()...).
				Value(&cfg.Appearance.Theme),
		),
	)

	if err := huh.NewForm(groups...).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.General.DataFile = dataChoice
	if dataChoice == otherFile {
		cfg.General.DataFile = customPath
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cfohelper setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func themeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		opts = append(opts, huh.NewOption(t.Name, t.Name))
	}
	return opts
}
