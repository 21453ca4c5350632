package grasp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lotSizing/internal/lotsizing"
)

func flatInstance() *lotsizing.Instance {
	return &lotsizing.Instance{
		T:      3,
		Demand: []float64{10, 10, 10},
		Setup:  []float64{5, 5, 5},
		Prod:   []float64{1, 1, 1},
		Hold:   []float64{1, 1, 1},
		Cap:    []float64{30, 30, 30},
	}
}

func TestLocalSearchReachesLocalOptimum(t *testing.T) {
	dec, err := lotsizing.NewDecoder(flatInstance())
	require.NoError(t, err)

	// Из [1,0,1] (стоимость 50) единственный улучшающий флип ведёт
	// к [1,1,1] (стоимость 45), дальше улучшений нет.
	y := []int{1, 0, 1}
	cost, evals := localSearch(dec, y, time.Now().Add(time.Minute))

	require.Equal(t, []int{1, 1, 1}, y)
	require.InDelta(t, 45.0, cost, 1e-9)
	require.Greater(t, evals, 1)
	require.InDelta(t, cost, dec.MustScore(y), 1e-12)
}

func TestLocalSearchMonotone(t *testing.T) {
	dec, err := lotsizing.NewDecoder(flatInstance())
	require.NoError(t, err)

	starts := [][]int{
		{1, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
		{1, 0, 0},
	}
	for _, s := range starts {
		y := append([]int(nil), s...)
		before := dec.MustScore(y)
		after, _ := localSearch(dec, y, time.Now().Add(time.Minute))
		require.LessOrEqual(t, after, before, "старт %v", s)
	}
}

func TestLocalSearchExpiredDeadline(t *testing.T) {
	dec, err := lotsizing.NewDecoder(flatInstance())
	require.NoError(t, err)

	y := []int{1, 0, 1}
	cost, evals := localSearch(dec, y, time.Now().Add(-time.Second))

	// Просроченный дедлайн: ни одного флипа, только стартовая оценка.
	require.Equal(t, []int{1, 0, 1}, y)
	require.InDelta(t, 50.0, cost, 1e-9)
	require.Equal(t, 1, evals)
}
