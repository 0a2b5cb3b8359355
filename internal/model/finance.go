// Package model defines the financial state, runway and scenario types shared
// by the loader, the scenario engine and the presentation layers.
package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Baseline field keys as they appear in the source file.
const (
	KeyCash             = "cash"
	KeyMonthlyBurn      = "monthly_burn"
	KeyRevenue          = "revenue"
	KeyExpenses         = "expenses"
	KeyMonthlyMarketing = "monthly_marketing"
	KeyCurrentHires     = "current_hires"
	KeyAvgCostPerHire   = "avg_cost_per_hire"
	KeyBaselinePrice    = "baseline_price"
	KeyUnitsSold        = "units_sold"
)

// RequiredKeys lists the fields every loaded baseline carries, in display order.
var RequiredKeys = []string{
	KeyCash,
	KeyMonthlyBurn,
	KeyRevenue,
	KeyExpenses,
	KeyMonthlyMarketing,
	KeyCurrentHires,
	KeyAvgCostPerHire,
	KeyBaselinePrice,
	KeyUnitsSold,
}

// IsRequiredKey reports whether key is one of RequiredKeys.
func IsRequiredKey(key string) bool {
	for _, k := range RequiredKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ErrNonNumeric is wrapped by FieldError.
var ErrNonNumeric = errors.New("value is not numeric")

// FieldError reports a required field whose source value could not be
// coerced to a number.
type FieldError struct {
	Field string
	Raw   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %q: %v", e.Field, e.Raw, ErrNonNumeric)
}

func (e *FieldError) Unwrap() error { return ErrNonNumeric }

// Finances is a loaded baseline. Fields holds every key from the source
// (plus defaults for missing required keys) as tagged values; the typed
// fields mirror the required keys. A required key holding text leaves its
// typed field at zero and is reported by Validate.
type Finances struct {
	Source string

	Cash             decimal.Decimal
	MonthlyBurn      decimal.Decimal
	Revenue          decimal.Decimal
	Expenses         decimal.Decimal
	MonthlyMarketing decimal.Decimal
	CurrentHires     int64
	AvgCostPerHire   decimal.Decimal
	BaselinePrice    decimal.Decimal
	UnitsSold        int64

	Runway Runway

	Fields map[string]Value
	// Keys is the order in which keys were first seen, defaults last.
	Keys []string
}

// Lookup returns the raw tagged value for key.
func (f *Finances) Lookup(key string) (Value, bool) {
	v, ok := f.Fields[key]
	return v, ok
}

// Extra returns the keys that are not required fields, in source order.
func (f *Finances) Extra() []string {
	var out []string
	for _, k := range f.Keys {
		if !IsRequiredKey(k) {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot returns the figures kept on a Result for comparison.
func (f *Finances) Snapshot() Snapshot {
	return Snapshot{
		Cash:        f.Cash,
		MonthlyBurn: f.MonthlyBurn,
		Revenue:     f.Revenue,
		Expenses:    f.Expenses,
		Runway:      f.Runway,
	}
}

// Validate returns a *FieldError for the first required field, in
// RequiredKeys order, whose value is not numeric.
func (f *Finances) Validate() error {
	if f == nil {
		return errors.New("finances is nil")
	}
	for _, k := range RequiredKeys {
		v, ok := f.Fields[k]
		if !ok {
			continue
		}
		if !v.IsNumber() {
			return &FieldError{Field: k, Raw: v.Raw()}
		}
	}
	return nil
}

func init() {
	// Money and runway fields go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
