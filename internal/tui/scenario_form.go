package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// scenarioValues backs the scenario form inputs as typed text.
type scenarioValues struct {
	hires     string
	marketing string
	pricePct  string
}

func valuesFromDelta(d model.Delta) scenarioValues {
	return scenarioValues{
		hires:     strconv.FormatInt(max(d.AddHires, 0), 10),
		marketing: d.DeltaMarketing.String(),
		pricePct:  d.PriceChangePct.String(),
	}
}

// delta parses the form values. Blank inputs mean no change.
func (v scenarioValues) delta() (model.Delta, error) {
	hires, err := parseHires(v.hires)
	if err != nil {
		return model.Delta{}, err
	}
	marketing, err := parseAmount(v.marketing)
	if err != nil {
		return model.Delta{}, fmt.Errorf("marketing: %w", err)
	}
	price, err := parseAmount(v.pricePct)
	if err != nil {
		return model.Delta{}, fmt.Errorf("price change: %w", err)
	}
	return model.Delta{AddHires: hires, DeltaMarketing: marketing, PriceChangePct: price}, nil
}

func parseHires(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("hires must be a whole number")
	}
	return n, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, errors.New("must be a number")
	}
	return d, nil
}

// newScenarioForm builds the three-input scenario form. Each input is
// checked against limits as it is edited.
func newScenarioForm(limits config.LimitsConfig, currency string, vals *scenarioValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add hires").
				Description(fmt.Sprintf("New headcount, 0 to %d", limits.MaxHires)).
				Value(&vals.hires).
				Validate(func(s string) error {
					n, err := parseHires(s)
					if err != nil {
						return err
					}
					return limits.Check(model.Delta{AddHires: n})
				}),
			huh.NewInput().
				Title("Change in monthly marketing ("+currency+")").
				Description(fmt.Sprintf("%g to %g", limits.MarketingMin, limits.MarketingMax)).
				Value(&vals.marketing).
				Validate(func(s string) error {
					d, err := parseAmount(s)
					if err != nil {
						return err
					}
					return limits.Check(model.Delta{DeltaMarketing: d})
				}),
			huh.NewInput().
				Title("Price change (%)").
				Description(fmt.Sprintf("%g to %g", limits.PriceMinPct, limits.PriceMaxPct)).
				Value(&vals.pricePct).
				Validate(func(s string) error {
					d, err := parseAmount(s)
					if err != nil {
						return err
					}
					return limits.Check(model.Delta{PriceChangePct: d})
				}),
		),
	).WithShowHelp(false)
}
