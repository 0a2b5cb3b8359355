package pipeline

import (
	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/source"

	"github.com/shopspring/decimal"
)

// LoadFinances reads the baseline at path and derives its runway.
// The only error is a *source.ReadError; missing or non-numeric fields
// never fail the load (see model.Finances.Validate).
func LoadFinances(path string) (*model.Finances, error) {
	rec, err := source.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Fold(rec), nil
}

// Fold turns parsed rows into a fully populated baseline: later rows win for
// repeated keys, missing required keys default to 0, the two counts are
// truncated to integers, and runway is attached.
func Fold(rec *source.Record) *model.Finances {
	f := &model.Finances{
		Source: rec.Identity.Path,
		Fields: make(map[string]model.Value, len(rec.Fields)+len(model.RequiredKeys)),
	}

	for _, fld := range rec.Fields {
		if _, seen := f.Fields[fld.Key]; !seen {
			f.Keys = append(f.Keys, fld.Key)
		}
		f.Fields[fld.Key] = fld.Value
	}

	for _, k := range model.RequiredKeys {
		if _, ok := f.Fields[k]; !ok {
			f.Fields[k] = model.Number(decimal.Zero)
			f.Keys = append(f.Keys, k)
		}
	}

	for _, k := range []string{model.KeyCurrentHires, model.KeyUnitsSold} {
		if d, ok := f.Fields[k].Decimal(); ok {
			f.Fields[k] = model.Number(d.Truncate(0))
		}
	}

	f.Cash = number(f, model.KeyCash)
	f.MonthlyBurn = number(f, model.KeyMonthlyBurn)
	f.Revenue = number(f, model.KeyRevenue)
	f.Expenses = number(f, model.KeyExpenses)
	f.MonthlyMarketing = number(f, model.KeyMonthlyMarketing)
	f.CurrentHires = number(f, model.KeyCurrentHires).IntPart()
	f.AvgCostPerHire = number(f, model.KeyAvgCostPerHire)
	f.BaselinePrice = number(f, model.KeyBaselinePrice)
	f.UnitsSold = number(f, model.KeyUnitsSold).IntPart()

	f.Runway = model.ComputeRunway(f.Cash, f.MonthlyBurn)
	return f
}

// number returns the numeric value of key, or zero for text.
func number(f *model.Finances, key string) decimal.Decimal {
	d, _ := f.Fields[key].Decimal()
	return d
}
