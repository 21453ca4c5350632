package lotsizing

import (
	"fmt"
	"math"
)

// BigM and Penalty encode infeasibility inside the cost channel: any feasible
// cost stays far below BigM, any infeasible score is at least BigM plus the
// violation magnitude scaled by Penalty. Search code can therefore compare
// scores without branching on feasibility, and "less infeasible" vectors
// still rank better than worse ones.
const (
	BigM    = 1e15
	Penalty = 1e6

	tol = 1e-6
)

// Feasible reports whether a score corresponds to a feasible plan.
func Feasible(cost float64) bool { return cost < BigM/2 }

type Plan struct {
	Production []float64
	Inventory  []float64
}

type Decoder struct {
	inst *Instance
	x    []float64
	inv  []float64
}

func NewDecoder(inst *Instance) (*Decoder, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		inst: inst,
		x:    make([]float64, inst.T),
		inv:  make([]float64, inst.T),
	}, nil
}

// Score decodes a setup vector into a production/inventory plan and returns
// its exact cost, or a penalized score when the setups cannot cover demand
// under the capacity limits. Plan buffers are reused between calls; use
// Decode to copy the plan out.
func (dec *Decoder) Score(y []int) (float64, error) {
	if dec == nil || dec.inst == nil {
		return 0, fmt.Errorf("nil decoder")
	}
	if err := ValidateSetups(y, dec.inst.T); err != nil {
		return 0, err
	}
	return dec.score(y), nil
}

func (dec *Decoder) score(y []int) float64 {
	inst := dec.inst

	// Backward pass: remaining demand is covered by the latest open setups,
	// each bounded by its period capacity.
	r := 0.0
	for t := inst.T - 1; t >= 0; t-- {
		r += inst.Demand[t]
		if y[t] == 1 {
			x := inst.Cap[t]
			if r < x {
				x = r
			}
			dec.x[t] = x
			r -= x
		} else {
			dec.x[t] = 0
		}
	}
	if r > tol {
		return BigM + r*Penalty
	}

	// Forward pass: inventory balance; negative stock means some period
	// consumes before production can reach it.
	inv := 0.0
	for t := 0; t < inst.T; t++ {
		inv += dec.x[t] - inst.Demand[t]
		if inv < -tol {
			return BigM + math.Abs(inv)*Penalty
		}
		dec.inv[t] = inv
	}

	cost := 0.0
	for t := 0; t < inst.T; t++ {
		cost += inst.Setup[t]*float64(y[t]) + inst.Prod[t]*dec.x[t] + inst.Hold[t]*dec.inv[t]
	}
	return cost
}

func (dec *Decoder) MustScore(y []int) float64 {
	cost, err := dec.Score(y)
	if err != nil {
		panic(err)
	}
	return cost
}

// Decode is Score plus a copy of the plan. The plan is nil when the vector is
// infeasible; the error channel is reserved for malformed input.
func (dec *Decoder) Decode(y []int) (*Plan, float64, error) {
	cost, err := dec.Score(y)
	if err != nil {
		return nil, 0, err
	}
	if !Feasible(cost) {
		return nil, cost, nil
	}
	plan := &Plan{
		Production: append([]float64(nil), dec.x...),
		Inventory:  append([]float64(nil), dec.inv...),
	}
	return plan, cost, nil
}
