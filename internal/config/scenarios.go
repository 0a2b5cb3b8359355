package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/cfohelper/internal/model"

	"gopkg.in/yaml.v3"
)

// Scenario is one named what-if entry of a scenario batch file.
type Scenario struct {
	Name           string  `yaml:"name"`
	AddHires       int64   `yaml:"add_hires"`
	DeltaMarketing float64 `yaml:"delta_marketing"`
	PriceChangePct float64 `yaml:"price_change_pct"`
}

// Delta converts s to scenario engine input.
func (s Scenario) Delta() model.Delta {
	return model.NewDelta(s.AddHires, s.DeltaMarketing, s.PriceChangePct)
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a YAML batch of scenarios:
//
//	scenarios:
//	  - name: two hires
//	    add_hires: 2
//	    delta_marketing: 5000
//	    price_change_pct: 10
//
// Unnamed entries are named by position. Names must be unique.
func LoadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenarios(raw)
}

// ParseScenarios decodes a YAML scenario batch.
func ParseScenarios(raw []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errors.New("no scenarios defined")
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario %d", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return f.Scenarios, nil
}
