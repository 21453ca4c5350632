package bench_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotSizing/internal/bench"
)

func TestCalcFloatStats(t *testing.T) {
	s := bench.CalcFloatStats([]float64{3, 1, 2})
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 1.0, s.Best)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Std, 1e-12)
	assert.InDelta(t, 2.0, s.Median, 1e-12)
}

func TestCalcFloatStatsEmpty(t *testing.T) {
	s := bench.CalcFloatStats(nil)
	assert.Equal(t, 0, s.N)
	assert.Zero(t, s.Best)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.Std)
	assert.Zero(t, s.Median)
}

func TestCalcFloatStatsSingle(t *testing.T) {
	s := bench.CalcFloatStats([]float64{5})
	assert.Equal(t, 1, s.N)
	assert.Equal(t, 5.0, s.Best)
	assert.Equal(t, 5.0, s.Mean)
	assert.Zero(t, s.Std)
	assert.Equal(t, 5.0, s.Median)
}

func TestAggregate(t *testing.T) {
	rows := []bench.SummaryRow{
		{Class: "b", Cost: 10, Feasible: true, ElapsedSec: 1},
		{Class: "b", Cost: 20, Feasible: true, ElapsedSec: 3},
		{Class: "a", Cost: 1e15, Feasible: false, ElapsedSec: 2},
	}

	stats := bench.Aggregate(rows)
	require.Len(t, stats, 2)

	a := stats[0]
	assert.Equal(t, "a", a.Class)
	assert.Equal(t, 1, a.N)
	assert.Equal(t, 0, a.FeasibleN)
	assert.Equal(t, 0, a.Cost.N, "infeasible rows stay out of cost stats")
	assert.InDelta(t, 2.0, a.TimeMeanSec, 1e-12)

	b := stats[1]
	assert.Equal(t, "b", b.Class)
	assert.Equal(t, 2, b.N)
	assert.Equal(t, 2, b.FeasibleN)
	assert.Equal(t, 10.0, b.Cost.Best)
	assert.InDelta(t, 15.0, b.Cost.Mean, 1e-12)
	assert.InDelta(t, 7.0710678, b.Cost.Std, 1e-6)
	assert.InDelta(t, 2.0, b.TimeMeanSec, 1e-12)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, bench.Aggregate(nil))
}
