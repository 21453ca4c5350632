package grasp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"lotSizing/internal/lotsizing"
)

// Лоты большей длины здесь строго дешевле в среднем, поэтому при alpha=0
// конструкция обязана каждый раз выбирать самый длинный лот.
func lotsInstance() *lotsizing.Instance {
	return &lotsizing.Instance{
		T:      4,
		Demand: []float64{10, 10, 10, 10},
		Setup:  []float64{100, 100, 100, 100},
		Prod:   []float64{1, 1, 1, 1},
		Hold:   []float64{0.1, 0.1, 0.1, 0.1},
		Cap:    []float64{40, 40, 40, 40},
	}
}

func TestConstructGreedyPicksMinimum(t *testing.T) {
	inst := lotsInstance()
	rng := rand.New(rand.NewSource(1))
	y := make([]int, inst.T)

	for i := 0; i < 20; i++ {
		construct(inst, y, 0.0, 4, rng)
		require.Equal(t, []int{1, 0, 0, 0}, y)
	}
}

func TestConstructAlphaOneAdmitsAll(t *testing.T) {
	inst := lotsInstance()
	rng := rand.New(rand.NewSource(7))
	y := make([]int, inst.T)

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		construct(inst, y, 1.0, 4, rng)

		// Длина первого лота равна позиции второго запуска
		// (или T, если запуск единственный).
		first := inst.T
		for k := 1; k < inst.T; k++ {
			if y[k] == 1 {
				first = k
				break
			}
		}
		seen[first] = true
	}

	for L := 1; L <= 4; L++ {
		require.True(t, seen[L], "длина лота %d ни разу не выбрана при alpha=1", L)
	}
}

func TestConstructForcedSetup(t *testing.T) {
	inst := &lotsizing.Instance{
		T:      2,
		Demand: []float64{10, 10},
		Setup:  []float64{5, 5},
		Prod:   []float64{1, 1},
		Hold:   []float64{1, 1},
		Cap:    []float64{5, 30},
	}
	rng := rand.New(rand.NewSource(3))
	y := make([]int, inst.T)

	// Мощности периода 0 не хватает даже на лот длины 1:
	// запуск ставится принудительно и курсор сдвигается на один период.
	construct(inst, y, 0.5, 2, rng)
	require.Equal(t, []int{1, 1}, y)
}

func TestConstructAlwaysOpensFirstPeriod(t *testing.T) {
	inst := lotsInstance()
	rng := rand.New(rand.NewSource(11))
	y := make([]int, inst.T)

	for i := 0; i < 50; i++ {
		construct(inst, y, 0.7, 3, rng)
		require.NoError(t, lotsizing.ValidateSetups(y, inst.T))
		require.Equal(t, 1, y[0])
	}
}

func TestConstructOverwritesBuffer(t *testing.T) {
	inst := lotsInstance()
	rng := rand.New(rand.NewSource(5))

	y := []int{1, 1, 1, 1}
	construct(inst, y, 0.0, 4, rng)
	require.Equal(t, []int{1, 0, 0, 0}, y)
}
