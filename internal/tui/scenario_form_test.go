package tui

import (
	"errors"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/config"
	"github.com/theirongolddev/cfohelper/internal/model"

	"github.com/shopspring/decimal"
)

func TestScenarioValues_Delta(t *testing.T) {
	tests := []struct {
		name  string
		vals  scenarioValues
		hires int64
		mkt   string
		price string
	}{
		{"plain", scenarioValues{"2", "5000", "10"}, 2, "5000", "10"},
		{"blank means zero", scenarioValues{"", " ", ""}, 0, "0", "0"},
		{"separators and signs", scenarioValues{" 3 ", "-12,500", "+7.5%"}, 3, "-12500", "7.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.vals.delta()
			if err != nil {
				t.Fatalf("delta: %v", err)
			}
			if d.AddHires != tt.hires {
				t.Errorf("AddHires = %d, want %d", d.AddHires, tt.hires)
			}
			if !d.DeltaMarketing.Equal(decimal.RequireFromString(tt.mkt)) {
				t.Errorf("DeltaMarketing = %s, want %s", d.DeltaMarketing, tt.mkt)
			}
			if !d.PriceChangePct.Equal(decimal.RequireFromString(tt.price)) {
				t.Errorf("PriceChangePct = %s, want %s", d.PriceChangePct, tt.price)
			}
		})
	}
}

func TestScenarioValues_DeltaErrors(t *testing.T) {
	for _, vals := range []scenarioValues{
		{"two", "0", "0"},
		{"1.5", "0", "0"},
		{"0", "lots", "0"},
		{"0", "0", "ten"},
	} {
		if _, err := vals.delta(); err == nil {
			t.Errorf("delta(%+v) succeeded, want error", vals)
		}
	}
}

func TestValuesFromDelta_RoundTrip(t *testing.T) {
	d := model.NewDelta(4, -2500, 12.5)
	got, err := valuesFromDelta(d).delta()
	if err != nil {
		t.Fatal(err)
	}
	if got.AddHires != 4 || !got.DeltaMarketing.Equal(d.DeltaMarketing) || !got.PriceChangePct.Equal(d.PriceChangePct) {
		t.Errorf("round trip = %+v, want %+v", got, d)
	}
}

func TestScenarioForm_LimitsApplyToParsedInput(t *testing.T) {
	limits := config.DefaultConfig().Limits
	vals := scenarioValues{"25", "0", "0"}
	d, err := vals.delta()
	if err != nil {
		t.Fatal(err)
	}
	if err := limits.Check(d); !errors.Is(err, config.ErrOutOfRange) {
		t.Errorf("Check(25 hires) = %v, want ErrOutOfRange", err)
	}

	if f := newScenarioForm(limits, "$", &vals); f == nil {
		t.Fatal("newScenarioForm returned nil")
	}
}
