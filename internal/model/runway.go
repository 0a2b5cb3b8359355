package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Runway is the number of months until cash runs out at the current burn.
// It is either a finite month count or unbounded (burn <= 0). The zero value
// is a finite runway of 0 months.
type Runway struct {
	months    decimal.Decimal
	unbounded bool
}

// FiniteRunway returns a runway of the given number of months.
func FiniteRunway(months decimal.Decimal) Runway {
	return Runway{months: months}
}

// UnboundedRunway returns the runway for a business that is not burning cash.
func UnboundedRunway() Runway {
	return Runway{unbounded: true}
}

// ComputeRunway returns cash/burn when burn is positive and an unbounded
// runway otherwise.
func ComputeRunway(cash, monthlyBurn decimal.Decimal) Runway {
	if !monthlyBurn.IsPositive() {
		return UnboundedRunway()
	}
	return FiniteRunway(cash.Div(monthlyBurn))
}

// Unbounded reports whether the runway is infinite.
func (r Runway) Unbounded() bool { return r.unbounded }

// Months returns the finite month count. ok is false for an unbounded runway.
func (r Runway) Months() (months decimal.Decimal, ok bool) {
	if r.unbounded {
		return decimal.Zero, false
	}
	return r.months, true
}

// ChartMonths returns the value to plot for this runway. Unbounded runways
// plot as 0, matching how the before/after chart has always been drawn.
func (r Runway) ChartMonths() float64 {
	if r.unbounded {
		return 0
	}
	return r.months.InexactFloat64()
}

// Equal reports whether two runways are identical.
func (r Runway) Equal(o Runway) bool {
	if r.unbounded || o.unbounded {
		return r.unbounded == o.unbounded
	}
	return r.months.Equal(o.months)
}

// Cmp compares two runways. Unbounded is greater than any finite runway and
// equal to itself.
func (r Runway) Cmp(o Runway) int {
	switch {
	case r.unbounded && o.unbounded:
		return 0
	case r.unbounded:
		return 1
	case o.unbounded:
		return -1
	}
	return r.months.Cmp(o.months)
}

// Format renders the runway with the given number of decimals, or "∞".
func (r Runway) Format(places int32) string {
	if r.unbounded {
		return "∞"
	}
	return r.months.StringFixedBank(places)
}

// String implements fmt.Stringer.
func (r Runway) String() string { return r.Format(1) }

// CSV renders the runway for tabular export: "inf" when unbounded.
func (r Runway) CSV() string {
	if r.unbounded {
		return "inf"
	}
	return r.months.String()
}

const unboundedJSON = "unbounded"

// MarshalJSON encodes a finite runway as a number and an unbounded one as
// the string "unbounded".
func (r Runway) MarshalJSON() ([]byte, error) {
	if r.unbounded {
		return json.Marshal(unboundedJSON)
	}
	return []byte(r.months.String()), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Runway) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unboundedJSON {
			return fmt.Errorf("invalid runway %q", s)
		}
		*r = UnboundedRunway()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errors.New("runway must be a number or \"unbounded\"")
	}
	*r = FiniteRunway(d)
	return nil
}
