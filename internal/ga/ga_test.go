package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotSizing/internal/lotsizing"
)

// Пять периодов с дорогими запусками и дешёвым хранением: тривиальный план
// «запуск в каждом периоде» стоит 550, оптимум — один запуск в первом
// периоде (стоимость 200).
func gaInstance(t *testing.T) *lotsizing.Instance {
	t.Helper()
	inst, err := lotsizing.NewInstance(5,
		[]float64{10, 10, 10, 10, 10},
		[]float64{100, 100, 100, 100, 100},
		[]float64{1, 1, 1, 1, 1},
		[]float64{0.5, 0.5, 0.5, 0.5, 0.5},
		[]float64{50, 50, 50, 50, 50},
	)
	require.NoError(t, err)
	return inst
}

func testConfig() Config {
	return Config{
		Population:     40,
		Generations:    60,
		Elite:          2,
		TournamentSize: 3,
		CrossoverRate:  0.9,
		MutationRate:   0.2,
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"population", func(c *Config) { c.Population = 1 }},
		{"generations", func(c *Config) { c.Generations = 0 }},
		{"elite", func(c *Config) { c.Elite = c.Population }},
		{"tournament", func(c *Config) { c.TournamentSize = 0 }},
		{"crossover rate", func(c *Config) { c.CrossoverRate = 1.5 }},
		{"mutation rate", func(c *Config) { c.MutationRate = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)

	_, err = New(Config{}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSolveImprovesOverTrivial(t *testing.T) {
	inst := gaInstance(t)

	dec, err := lotsizing.NewDecoder(inst)
	require.NoError(t, err)
	trivial := dec.MustScore([]int{1, 1, 1, 1, 1})
	require.Equal(t, 550.0, trivial)

	s, err := New(testConfig(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.True(t, res.Feasible)
	assert.Less(t, res.Cost, trivial)
	assert.Equal(t, res.Cost, dec.MustScore(res.Setups))
	assert.Equal(t, testConfig().Generations, res.Iterations)
	assert.GreaterOrEqual(t, res.Evaluations, testConfig().Population)
	require.NotEmpty(t, res.Convergence)
	assert.Equal(t, res.Cost, res.Convergence[len(res.Convergence)-1].Cost)
}

func TestSolveDeterministic(t *testing.T) {
	inst := gaInstance(t)

	a, err := New(testConfig(), rand.New(rand.NewSource(2025)))
	require.NoError(t, err)
	resA, err := a.Solve(context.Background(), inst)
	require.NoError(t, err)

	b, err := New(testConfig(), rand.New(rand.NewSource(2025)))
	require.NoError(t, err)
	resB, err := b.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.Equal(t, resA.Cost, resB.Cost)
	assert.Equal(t, resA.Setups, resB.Setups)
	assert.Equal(t, resA.Evaluations, resB.Evaluations)
}

func TestSolveCancelledContext(t *testing.T) {
	inst := gaInstance(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := s.Solve(ctx, inst)
	assert.ErrorIs(t, err, context.Canceled)

	// Лучшее решение начальной популяции возвращается даже при отмене.
	assert.Len(t, res.Setups, inst.T)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, "context", res.Meta["stopped"])
}

func TestOnePointCrossover(t *testing.T) {
	p1 := []int{0, 0, 0, 0, 0, 0}
	p2 := []int{1, 1, 1, 1, 1, 1}
	c1 := make([]int, 6)
	c2 := make([]int, 6)

	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 20; trial++ {
		onePointCrossover(p1, p2, c1, c2, rng)

		// Префикс от первого родителя, суффикс от второго.
		assert.Equal(t, 0, c1[0])
		assert.Equal(t, 1, c1[5])
		assert.Equal(t, 1, c2[0])
		assert.Equal(t, 0, c2[5])
		for i := 0; i < 6; i++ {
			assert.Equal(t, 1, c1[i]+c2[i], "потомки дополняют друг друга")
		}
		for i := 1; i < 6; i++ {
			assert.GreaterOrEqual(t, c1[i], c1[i-1], "одна точка разреза")
		}
	}
}

func TestOnePointCrossoverShort(t *testing.T) {
	c1 := make([]int, 1)
	c2 := make([]int, 1)
	onePointCrossover([]int{1}, []int{0}, c1, c2, rand.New(rand.NewSource(1)))
	assert.Equal(t, []int{1}, c1)
	assert.Equal(t, []int{0}, c2)
}

func TestMutateFlip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	y := []int{0, 1, 0, 1}
	orig := append([]int(nil), y...)

	mutateFlip(y, rng)

	diff := 0
	for i := range y {
		if y[i] != orig[i] {
			diff++
		}
	}
	assert.Equal(t, 1, diff)
}

func TestTournamentSelectPrefersBest(t *testing.T) {
	scores := []float64{5, 1}
	idx := tournamentSelect(scores, 30, rand.New(rand.NewSource(1)))
	assert.Equal(t, 1, idx)
}
