package opt

import (
	"context"
	"time"

	"lotSizing/internal/lotsizing"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *lotsizing.Instance) (Result, error)
}

// Sample is one point of the convergence log: the best cost known at the
// given elapsed time since the solve started.
type Sample struct {
	Elapsed time.Duration
	Cost    float64
}

type Result struct {
	Setups      []int
	Production  []float64
	Inventory   []float64
	Cost        float64
	Feasible    bool
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Convergence []Sample
	Meta        map[string]any
}
