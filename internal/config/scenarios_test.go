package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	body := `scenarios:
  - name: two hires
    add_hires: 2
    delta_marketing: 5000
    price_change_pct: 10
  - price_change_pct: -12.5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("LoadScenarios: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "two hires" || got[0].AddHires != 2 {
		t.Errorf("got[0] = %+v", got[0])
	}
	d := got[0].Delta()
	if d.DeltaMarketing.IntPart() != 5000 || d.PriceChangePct.IntPart() != 10 {
		t.Errorf("Delta = %+v", d)
	}
	if got[1].Name != "scenario 2" {
		t.Errorf("got[1].Name = %q, want scenario 2", got[1].Name)
	}
	if got[1].Delta().PriceChangePct.String() != "-12.5" {
		t.Errorf("got[1] price = %s, want -12.5", got[1].Delta().PriceChangePct)
	}
}

func TestParseScenarios_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "scenarios: []\n"},
		{"malformed", "scenarios: [\n"},
		{"duplicate", "scenarios:\n  - name: a\n  - name: a\n"},
	}
	for _, tt := range tests {
		if _, err := ParseScenarios([]byte(tt.body)); err == nil {
			t.Errorf("%s: ParseScenarios succeeded, want error", tt.name)
		}
	}
}

func TestLoadScenarios_MissingFile(t *testing.T) {
	if _, err := LoadScenarios(filepath.Join(t.TempDir(), "none.yaml")); !os.IsNotExist(err) {
		t.Errorf("err = %v, want not-exist", err)
	}
}
