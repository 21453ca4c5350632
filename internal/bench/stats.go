package bench

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type FloatStats struct {
	N      int
	Best   float64
	Mean   float64
	Std    float64
	Median float64
}

func CalcFloatStats(values []float64) FloatStats {
	s := FloatStats{N: len(values)}
	if s.N == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Best = sorted[0]
	s.Mean = stat.Mean(sorted, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// ClassStats aggregates the summary rows of one instance class. Cost
// statistics cover feasible rows only: penalized scores would swamp them.
type ClassStats struct {
	Class     string
	N         int
	FeasibleN int

	Cost        FloatStats
	TimeMeanSec float64
}

func Aggregate(rows []SummaryRow) []ClassStats {
	byClass := make(map[string][]SummaryRow)
	names := make([]string, 0)
	for _, r := range rows {
		if _, ok := byClass[r.Class]; !ok {
			names = append(names, r.Class)
		}
		byClass[r.Class] = append(byClass[r.Class], r)
	}
	sort.Strings(names)

	out := make([]ClassStats, 0, len(names))
	for _, name := range names {
		grp := byClass[name]
		cs := ClassStats{Class: name, N: len(grp)}

		costs := make([]float64, 0, len(grp))
		times := make([]float64, 0, len(grp))
		for _, r := range grp {
			times = append(times, r.ElapsedSec)
			if r.Feasible {
				cs.FeasibleN++
				costs = append(costs, r.Cost)
			}
		}

		cs.Cost = CalcFloatStats(costs)
		cs.TimeMeanSec = stat.Mean(times, nil)
		out = append(out, cs)
	}
	return out
}
