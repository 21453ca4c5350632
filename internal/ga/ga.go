package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

// Solver — реализация генетического алгоритма для вектора запусков y.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *lotsizing.Instance) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оракул стоимости: вектор запусков -> штрафованная стоимость плана
	dec, err := lotsizing.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.T
	popSize := s.Cfg.Population

	// Вспомогательная анонимная функция для создания двумерного массива векторов
	makeVectors := func() [][]int {
		backing := make([]int, popSize*n)
		vecs := make([][]int, popSize)
		for i := 0; i < popSize; i++ {
			vecs[i] = backing[i*n : (i+1)*n]
		}
		return vecs
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makeVectors()
	popB := makeVectors()
	scoresA := make([]float64, popSize)
	scoresB := make([]float64, popSize)

	// Инициализация начальной популяции.
	// Первая особь — тривиальный план «запуск в каждом периоде»: при
	// достаточных мощностях он допустим и даёт популяции опорную точку,
	// остальные особи случайны.
	for i := range popA[0] {
		popA[0][i] = 1
	}
	scoresA[0] = dec.MustScore(popA[0])
	for i := 1; i < popSize; i++ {
		randomVector(popA[i], s.Rng)
		scoresA[i] = dec.MustScore(popA[i])
	}
	evaluations := popSize

	// Поиск лучшего решения в начальной популяции
	best := make([]int, n)
	bestCost := scoresA[0]
	copy(best, popA[0])
	for i := 1; i < popSize; i++ {
		if scoresA[i] < bestCost {
			bestCost = scoresA[i]
			copy(best, popA[i])
		}
	}

	conv := []opt.Sample{{Elapsed: time.Since(start) + time.Microsecond, Cost: bestCost}}

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make([]int, n)

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			meta := s.meta()
			meta["stopped"] = "context"
			return toResult(dec, best, bestCost, evaluations, gen, start, conv, meta), err
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.Slice(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		// Генерация остальных особей нового поколения
		for write < popSize {
			// Турнирный отбор
			p1 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			p2 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			if popSize > 1 {
				for p2 == p1 {
					p2 = tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
				}
			}

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				onePointCrossover(popA[p1], popA[p2], child1, child2, s.Rng)
			} else {
				copy(child1, popA[p1])
				if hasSecond {
					copy(child2, popA[p2])
				}
			}

			// Мутация
			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutateFlip(child1, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutateFlip(child2, s.Rng)
			}

			// Оценка первого потомка
			cost1 := dec.MustScore(child1)
			scoresB[write] = cost1
			evaluations++
			if cost1 < bestCost {
				bestCost = cost1
				copy(best, child1)
				conv = append(conv, opt.Sample{Elapsed: time.Since(start), Cost: bestCost})
			}
			write++

			// Оценка второго потомка
			if hasSecond {
				cost2 := dec.MustScore(child2)
				scoresB[write] = cost2
				evaluations++
				if cost2 < bestCost {
					bestCost = cost2
					copy(best, child2)
					conv = append(conv, opt.Sample{Elapsed: time.Since(start), Cost: bestCost})
				}
				write++
			}
		}

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA
	}

	return toResult(dec, best, bestCost, evaluations, s.Cfg.Generations, start, conv, s.meta()), nil
}

func (s *Solver) meta() map[string]any {
	return map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}
}
