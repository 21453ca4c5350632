package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"lotSizing/internal/lotsizing"
)

func tsInstance() *lotsizing.Instance {
	return &lotsizing.Instance{
		T:      5,
		Demand: []float64{10, 10, 10, 10, 10},
		Setup:  []float64{100, 100, 100, 100, 100},
		Prod:   []float64{1, 1, 1, 1, 1},
		Hold:   []float64{0.5, 0.5, 0.5, 0.5, 0.5},
		Cap:    []float64{50, 50, 50, 50, 50},
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.TabuTenure = 0
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.TabuTenureRand = -1
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.NeighborsPerIter = 0
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Neighborhood = "swap"
	require.Error(t, bad.Validate())
}

func TestSolveImprovesOverTrivial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 300

	s, err := New(cfg, rand.New(rand.NewSource(23)))
	require.NoError(t, err)

	inst := tsInstance()
	dec, err := lotsizing.NewDecoder(inst)
	require.NoError(t, err)
	trivial := make([]int, inst.T)
	onesVector(trivial)
	trivialCost := dec.MustScore(trivial)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)

	require.True(t, res.Feasible)
	require.Less(t, res.Cost, trivialCost)
	require.InDelta(t, res.Cost, dec.MustScore(res.Setups), 1e-9)
}

func TestSolveDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 200

	run := func() ([]int, float64) {
		s, err := New(cfg, rand.New(rand.NewSource(11)))
		require.NoError(t, err)
		res, err := s.Solve(context.Background(), tsInstance())
		require.NoError(t, err)
		return res.Setups, res.Cost
	}

	y1, c1 := run()
	y2, c2 := run()
	require.Equal(t, y1, y2)
	require.Equal(t, c1, c2)
}

func TestSolveCancelledContext(t *testing.T) {
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Solve(ctx, tsInstance())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "context", res.Meta["stopped"])
}

func TestMoveKeyNonZero(t *testing.T) {
	require.NotZero(t, moveKey(0, -1))
	require.NotZero(t, moveKey(0, 1))

	// Нормализация пары: ключ не зависит от порядка.
	require.Equal(t, moveKey(3, 7), moveKey(7, 3))
	require.NotEqual(t, moveKey(1, -1), moveKey(2, -1))
}

func TestTabuListExpiry(t *testing.T) {
	tl := newTabuList(8)
	tl.Add(moveKey(2, -1), 5)

	require.True(t, tl.IsTabu(moveKey(2, -1), 3))
	require.False(t, tl.IsTabu(moveKey(2, -1), 5))
	require.False(t, tl.IsTabu(moveKey(4, -1), 3))
}

func TestTabuListEviction(t *testing.T) {
	tl := newTabuList(8)
	for i := 0; i < 12; i++ {
		tl.Add(moveKey(i, -1), 100)
	}

	// Кольцо ёмкостью 8: первые четыре ключа вытеснены.
	require.False(t, tl.IsTabu(moveKey(0, -1), 0))
	require.False(t, tl.IsTabu(moveKey(3, -1), 0))
	require.True(t, tl.IsTabu(moveKey(4, -1), 0))
	require.True(t, tl.IsTabu(moveKey(11, -1), 0))
}

func TestApplyMove(t *testing.T) {
	y := []int{1, 0, 1}
	applyMove(y, 1, -1)
	require.Equal(t, []int{1, 1, 1}, y)

	applyMove(y, 0, 2)
	require.Equal(t, []int{0, 1, 0}, y)
}
