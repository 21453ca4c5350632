package lotsizing

import (
	"errors"
	"fmt"
)

type Instance struct {
	T int
	// All five arrays must have length T.
	Demand []float64
	Setup  []float64
	Prod   []float64
	Hold   []float64
	Cap    []float64
}

func NewInstance(t int, demand, setup, prod, hold, cap []float64) (*Instance, error) {
	inst := &Instance{T: t, Demand: demand, Setup: setup, Prod: prod, Hold: hold, Cap: cap}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.T <= 0 {
		return fmt.Errorf("periods must be > 0 (got %d)", inst.T)
	}
	arrays := []struct {
		name string
		v    []float64
	}{
		{"demand", inst.Demand},
		{"setup", inst.Setup},
		{"prod", inst.Prod},
		{"hold", inst.Hold},
		{"cap", inst.Cap},
	}
	for _, a := range arrays {
		if len(a.v) != inst.T {
			return fmt.Errorf("%s length must be %d (got %d)", a.name, inst.T, len(a.v))
		}
	}
	for t, v := range inst.Demand {
		if v < 0 {
			return fmt.Errorf("demand[%d] must be >= 0 (got %g)", t, v)
		}
	}
	for t, v := range inst.Cap {
		if v < 0 {
			return fmt.Errorf("cap[%d] must be >= 0 (got %g)", t, v)
		}
	}
	return nil
}

func (inst *Instance) TotalDemand() float64 {
	sum := 0.0
	for _, v := range inst.Demand {
		sum += v
	}
	return sum
}

func (inst *Instance) TotalCapacity() float64 {
	sum := 0.0
	for _, v := range inst.Cap {
		sum += v
	}
	return sum
}
