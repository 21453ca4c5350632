package ga

import (
	"time"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

func toResult(dec *lotsizing.Decoder, best []int, bestCost float64, evals, gens int, start time.Time, conv []opt.Sample, meta map[string]any) opt.Result {
	bestCopy := make([]int, len(best))
	copy(bestCopy, best)

	res := opt.Result{
		Setups:      bestCopy,
		Cost:        bestCost,
		Feasible:    lotsizing.Feasible(bestCost),
		Evaluations: evals,
		Iterations:  gens,
		Duration:    time.Since(start),
		Convergence: conv,
		Meta:        meta,
	}
	if plan, _, err := dec.Decode(bestCopy); err == nil && plan != nil {
		res.Production = plan.Production
		res.Inventory = plan.Inventory
	}
	return res
}
