package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerPeriod * n
	}

	// Текущее и кандидатное решения
	curr := make([]int, n)
	cand := make([]int, n)

	// Старт от тривиального решения «запуск в каждом периоде»:
	// оно допустимо всегда, когда мощностей хватает на спрос
	onesVector(curr)

	currCost := dec.MustScore(curr)
	bestCost := currCost
	best := make([]int, n)
	copy(best, curr)

	evals := 1
	conv := []opt.Sample{{Elapsed: time.Since(start) + time.Microsecond, Cost: bestCost}}

	T := s.Cfg.InitialTemp
	iter := 0

	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			extra := map[string]any{
				"stopped": "context",
				"T":       T,
			}
			return s.result(dec, best, bestCost, evals, iter, start, conv, extra), err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodFlip:
			// Окрестность на основе инверсии одного бита
			neighborFlip(cand, s.Rng)
		case NeighborhoodPair:
			// Окрестность на основе инверсии двух различных битов
			neighborPairFlip(cand, s.Rng)
		default:
			neighborFlip(cand, s.Rng)
		}

		candCost := dec.MustScore(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-delta / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost

			// Обновление глобально лучшего решения
			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
				conv = append(conv, opt.Sample{Elapsed: time.Since(start), Cost: bestCost})
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return s.result(dec, best, bestCost, evals, iter, start, conv, nil), nil
}

func (s *Solver) result(dec *lotsizing.Decoder, best []int, bestCost float64, evals, iters int, start time.Time, conv []opt.Sample, extra map[string]any) opt.Result {
	meta := map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
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

// onesVector заполняет вектор единицами.
// Используется как тривиальное стартовое решение.
func onesVector(y []int) {
	for i := range y {
		y[i] = 1
	}
}

// Формирует соседнее решение инверсией одного случайного бита.
func neighborFlip(y []int, rng *rand.Rand) {
	if len(y) == 0 {
		return
	}
	y[rng.Intn(len(y))] ^= 1
}

// Формирует соседнее решение инверсией двух различных случайных битов.
func neighborPairFlip(y []int, rng *rand.Rand) {
	n := len(y)
	if n < 2 {
		neighborFlip(y, rng)
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	y[i] ^= 1
	y[j] ^= 1
}
