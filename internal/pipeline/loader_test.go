package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/source"
)

func writeBaseline(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finances.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// exampleBaseline is the reference baseline used across pipeline tests.
func exampleBaseline(t *testing.T) string {
	t.Helper()
	return writeBaseline(t,
		"key,value",
		"cash,100000",
		"monthly_burn,20000",
		"revenue,50000",
		"expenses,70000",
		"monthly_marketing,10000",
		"current_hires,5",
		"avg_cost_per_hire,2000",
		"baseline_price,100",
		"units_sold,500",
	)
}

func TestLoadFinances_Example(t *testing.T) {
	f, err := LoadFinances(exampleBaseline(t))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}

	if f.Cash.IntPart() != 100000 {
		t.Errorf("Cash = %s, want 100000", f.Cash)
	}
	if f.CurrentHires != 5 || f.UnitsSold != 500 {
		t.Errorf("CurrentHires/UnitsSold = %d/%d, want 5/500", f.CurrentHires, f.UnitsSold)
	}
	months, ok := f.Runway.Months()
	if !ok {
		t.Fatal("Runway unbounded, want finite")
	}
	if months.String() != "5" {
		t.Errorf("Runway = %s, want 5", months)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFinances_Defaults(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t, "key,value"))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}

	for _, k := range model.RequiredKeys {
		v, ok := f.Lookup(k)
		if !ok {
			t.Errorf("%s missing after defaulting", k)
			continue
		}
		d, num := v.Decimal()
		if !num || !d.IsZero() {
			t.Errorf("%s = %v, want numeric 0", k, v)
		}
	}
	if !f.Runway.Unbounded() {
		t.Errorf("Runway = %s, want unbounded", f.Runway)
	}
	if len(f.Keys) != len(model.RequiredKeys) {
		t.Errorf("Keys = %v, want the %d required keys", f.Keys, len(model.RequiredKeys))
	}
}

func TestLoadFinances_TruncatesCounts(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"current_hires,5.9",
		`units_sold,"1,250.7"`,
	))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}
	if f.CurrentHires != 5 {
		t.Errorf("CurrentHires = %d, want 5", f.CurrentHires)
	}
	if f.UnitsSold != 1250 {
		t.Errorf("UnitsSold = %d, want 1250", f.UnitsSold)
	}
	v, _ := f.Lookup(model.KeyUnitsSold)
	if v.Raw() != "1250" {
		t.Errorf("units_sold field = %q, want 1250", v.Raw())
	}
}

func TestLoadFinances_NonNumericPassthrough(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"cash,100000",
		"notes,hello",
	))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}

	v, ok := f.Lookup("notes")
	if !ok || v.IsNumber() || v.Raw() != "hello" {
		t.Errorf("notes = %v (present=%v), want opaque hello", v, ok)
	}
	if got := f.Extra(); len(got) != 1 || got[0] != "notes" {
		t.Errorf("Extra = %v, want [notes]", got)
	}
	if f.Cash.IntPart() != 100000 {
		t.Errorf("Cash = %s, want 100000", f.Cash)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFinances_NonFiniteSpellingsStayText(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"cash,inf",
		"revenue,NaN",
		"units_sold,1_000",
	))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}
	for _, k := range []string{"cash", "revenue", "units_sold"} {
		v, _ := f.Lookup(k)
		if v.IsNumber() {
			t.Errorf("%s = %v, want text", k, v)
		}
	}
	if !errors.Is(f.Validate(), model.ErrNonNumeric) {
		t.Errorf("Validate = %v, want ErrNonNumeric", f.Validate())
	}
}

func TestLoadFinances_NonNumericRequiredField(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"cash,lots",
		"monthly_burn,100",
	))
	if err != nil {
		t.Fatalf("LoadFinances should degrade, got %v", err)
	}
	if !f.Cash.IsZero() {
		t.Errorf("Cash = %s, want 0 for opaque input", f.Cash)
	}

	err = f.Validate()
	var fe *model.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Validate = %v, want *model.FieldError", err)
	}
	if fe.Field != model.KeyCash || fe.Raw != "lots" {
		t.Errorf("FieldError = %+v, want cash/lots", fe)
	}
	if !errors.Is(err, model.ErrNonNumeric) {
		t.Error("errors.Is(err, ErrNonNumeric) = false")
	}
}

func TestLoadFinances_LastRowWins(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"cash,1",
		"revenue,2",
		"cash,3",
	))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}
	if f.Cash.IntPart() != 3 {
		t.Errorf("Cash = %s, want 3", f.Cash)
	}
	if f.Keys[0] != model.KeyCash || f.Keys[1] != model.KeyRevenue {
		t.Errorf("Keys = %v, want cash then revenue first", f.Keys)
	}
}

func TestLoadFinances_ReadError(t *testing.T) {
	_, err := LoadFinances(filepath.Join(t.TempDir(), "missing.csv"))
	var re *source.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *source.ReadError", err)
	}
}

func TestLoadFinances_NegativeBurnIsUnbounded(t *testing.T) {
	f, err := LoadFinances(writeBaseline(t,
		"key,value",
		"cash,100000",
		"monthly_burn,-500",
	))
	if err != nil {
		t.Fatalf("LoadFinances: %v", err)
	}
	if !f.Runway.Unbounded() {
		t.Errorf("Runway = %s, want unbounded", f.Runway)
	}
}
