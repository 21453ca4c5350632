package ga

import "math/rand"

// randomVector заполняет вектор случайными битами 0/1.
// Используется при инициализации популяции.
func randomVector(y []int, rng *rand.Rand) {
	for i := range y {
		y[i] = rng.Intn(2)
	}
}

// tournamentSelect реализует турнирный отбор.
// возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	bestScore := scores[best]
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// onePointCrossover реализует одноточечный кроссовер бинарных векторов.
// Первый потомок получает префикс первого родителя и суффикс второго,
// второй потомок — наоборот.
func onePointCrossover(p1, p2, c1, c2 []int, rng *rand.Rand) {
	n := len(p1)
	if n < 2 {
		copy(c1, p1)
		copy(c2, p2)
		return
	}

	// Точка разреза не попадает на границы, иначе потомки — копии родителей
	cut := 1 + rng.Intn(n-1)

	copy(c1[:cut], p1[:cut])
	copy(c1[cut:], p2[cut:])
	copy(c2[:cut], p2[:cut])
	copy(c2[cut:], p1[cut:])
}

// mutateFlip реализует оператор мутации инверсией одного случайного бита.
func mutateFlip(y []int, rng *rand.Rand) {
	if len(y) == 0 {
		return
	}
	y[rng.Intn(len(y))] ^= 1
}
