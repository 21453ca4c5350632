package gen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes the full-factorial grid of instance classes to generate:
// one class per (horizon, tau, var) combination, PerClass files per class.
// Tau is the capacity tightness (mean capacity / mean demand), Var the
// demand coefficient of variation.
type Plan struct {
	Horizons []int     `yaml:"horizons"`
	Taus     []float64 `yaml:"taus"`
	Vars     []float64 `yaml:"vars"`

	PerClass   int     `yaml:"per_class"`
	Seed       int64   `yaml:"seed"`
	MeanDemand float64 `yaml:"mean_demand"`
}

func DefaultPlan() Plan {
	return Plan{
		Horizons: []int{50, 100, 200, 500},
		Taus:     []float64{1.5, 2.0, 5.0},
		Vars:     []float64{0.2, 0.8},

		PerClass:   10,
		Seed:       20251112,
		MeanDemand: 100,
	}
}

// LoadPlan reads a YAML plan; omitted fields keep their defaults.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, err
	}

	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

func (p Plan) Validate() error {
	if len(p.Horizons) == 0 {
		return fmt.Errorf("horizons must not be empty")
	}
	for i, t := range p.Horizons {
		if t <= 0 {
			return fmt.Errorf("horizons[%d] must be > 0 (got %d)", i, t)
		}
	}
	if len(p.Taus) == 0 {
		return fmt.Errorf("taus must not be empty")
	}
	for i, v := range p.Taus {
		if v <= 0 {
			return fmt.Errorf("taus[%d] must be > 0 (got %g)", i, v)
		}
	}
	if len(p.Vars) == 0 {
		return fmt.Errorf("vars must not be empty")
	}
	for i, v := range p.Vars {
		if v < 0 {
			return fmt.Errorf("vars[%d] must be >= 0 (got %g)", i, v)
		}
	}
	if p.PerClass <= 0 {
		return fmt.Errorf("per_class must be > 0 (got %d)", p.PerClass)
	}
	if p.MeanDemand <= 0 {
		return fmt.Errorf("mean_demand must be > 0 (got %g)", p.MeanDemand)
	}
	return nil
}
