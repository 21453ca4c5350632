package ts

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

// Solver - структура реализации табу-поиска.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, inst *lotsizing.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация входных данных
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оракул стоимости
	dec, err := lotsizing.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.T

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerPeriod * n
	}

	// Текущее и кандидатное решения
	curr := make([]int, n)
	cand := make([]int, n)

	// Старт от тривиального решения «запуск в каждом периоде»
	onesVector(curr)

	currCost := dec.MustScore(curr)
	evals := 1

	// Глобально лучшее решение
	best := make([]int, n)
	copy(best, curr)
	bestCost := currCost

	conv := []opt.Sample{{Elapsed: time.Since(start) + time.Microsecond, Cost: bestCost}}

	// Табу-список - кольцевой буфер с мапой
	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	neighbors := s.Cfg.NeighborsPerIter
	if neighbors < 1 {
		neighbors = 1
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			extra := map[string]any{"stopped": "context"}
			return s.result(dec, best, bestCost, evals, iter, start, conv, extra), err
		}

		// Лучший допустимый ход
		bestMoveI, bestMoveJ := -1, -1
		bestMoveCost := math.Inf(1)
		bestMoveKey := uint64(0)

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		fallbackI, fallbackJ := -1, -1
		fallbackCost := math.Inf(1)
		fallbackKey := uint64(0)

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < neighbors; k++ {
			i, j := s.sampleMove(n)
			key := moveKey(i, j)

			// Формирование соседнего решения
			copy(cand, curr)
			applyMove(cand, i, j)

			cost := dec.MustScore(cand)
			evals++

			// Обновление запасного хода
			if cost < fallbackCost {
				fallbackCost = cost
				fallbackI, fallbackJ = i, j
				fallbackKey = key
			}

			isTabu := tabu.IsTabu(key, iter)
			aspiration := cost < bestCost // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}

			if cost < bestMoveCost {
				bestMoveCost = cost
				bestMoveI, bestMoveJ = i, j
				bestMoveKey = key
			}
		}

		// Выбор хода: сначала допустимый лучший
		chosenI, chosenJ := bestMoveI, bestMoveJ
		chosenCost := bestMoveCost
		chosenKey := bestMoveKey

		if chosenI < 0 {
			chosenI, chosenJ = fallbackI, fallbackJ
			chosenCost = fallbackCost
			chosenKey = fallbackKey
		}

		// Нет допустимых ходов — завершаем поиск
		if chosenI < 0 {
			break
		}

		// Применение выбранного хода
		applyMove(curr, chosenI, chosenJ)
		currCost = chosenCost

		// Флип — инволюция: обратный ход совпадает с самим ходом,
		// поэтому табуируется его собственный ключ
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(chosenKey, iter+tenure)

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			bestCost = currCost
			copy(best, curr)
			conv = append(conv, opt.Sample{Elapsed: time.Since(start), Cost: bestCost})
		}
	}

	return s.result(dec, best, bestCost, evals, iter, start, conv, nil), nil
}

// sampleMove выбирает случайный ход: один период для флипа либо
// пару различных периодов для парного флипа (j = -1 для одиночного).
func (s *Solver) sampleMove(n int) (int, int) {
	i := s.Rng.Intn(n)
	if s.Cfg.Neighborhood != NeighborhoodPair || n < 2 {
		return i, -1
	}
	j := s.Rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// applyMove инвертирует биты хода (i, j); j < 0 означает одиночный флип.
func applyMove(y []int, i, j int) {
	y[i] ^= 1
	if j >= 0 {
		y[j] ^= 1
	}
}

// moveKey формирует уникальный ненулевой ключ хода.
// Для парного флипа пара нормализуется по возрастанию.
func moveKey(i, j int) uint64 {
	if j < 0 {
		return uint64(i) + 1
	}
	if j < i {
		i, j = j, i
	}
	return (uint64(i+1) << 21) | uint64(j+1)
}

func (s *Solver) result(dec *lotsizing.Decoder, best []int, bestCost float64, evals, iters int, start time.Time, conv []opt.Sample, extra map[string]any) opt.Result {
	meta := map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
	}
	for k, v := range extra {
		meta[k] = v
	}

	res := opt.Result{
		Setups:      best,
		Cost:        bestCost,
		Feasible:    lotsizing.Feasible(bestCost),
		Evaluations: evals,
		Iterations:  iters,
		Duration:    time.Since(start),
		Convergence: conv,
		Meta:        meta,
	}
	if plan, _, err := dec.Decode(best); err == nil && plan != nil {
		res.Production = plan.Production
		res.Inventory = plan.Inventory
	}
	return res
}

// tabuList — структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
		i:   0,
	}
}

// IsTabu проверяет, является ли ход табуированным на текущей итерации.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	if exp, ok := t.m[k]; ok && exp > iter {
		return true
	}
	return false
}

// Add добавляет новый табу-ход с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Удаление старого элемента из кольцевого буфера
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// onesVector заполняет вектор единицами.
// Используется как тривиальное стартовое решение.
func onesVector(y []int) {
	for i := range y {
		y[i] = 1
	}
}

// max возвращает максимум из двух целых чисел.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
