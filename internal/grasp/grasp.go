package grasp

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

// Solver - структура реализации метаэвристики GRASP
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GRASP-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — основной цикл мультистарта: конструкция + локальный поиск
// до исчерпания итераций или бюджета времени.
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

	dec, err := lotsizing.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}

	T := inst.T
	deadline := start.Add(s.Cfg.TimeLimit)

	lMax := s.Cfg.LMax
	if lMax > T {
		lMax = T
	}

	// Тривиальный фолбэк: запуск в каждом периоде
	// (допустимый всякий раз, когда суммарной мощности хватает)
	best := make([]int, T)
	for t := range best {
		best[t] = 1
	}
	bestCost := dec.MustScore(best)
	evals := 1

	conv := []opt.Sample{{Elapsed: time.Since(start) + time.Microsecond, Cost: bestCost}}

	cand := make([]int, T)
	iter := 0
	for ; iter < s.Cfg.MaxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			meta := map[string]any{"stopped": "context"}
			return s.result(dec, best, bestCost, evals, iter, start, conv, meta), err
		}
		if !time.Now().Before(deadline) {
			break
		}

		construct(inst, cand, s.Cfg.Alpha, lMax, s.Rng)

		// Заведомо недопустимые конструкции отбрасываются
		// без расхода бюджета локального поиска
		initCost := dec.MustScore(cand)
		evals++
		if !lotsizing.Feasible(initCost) {
			continue
		}

		cost, n := localSearch(dec, cand, deadline)
		evals += n

		if cost < bestCost {
			bestCost = cost
			copy(best, cand)
			conv = append(conv, opt.Sample{Elapsed: time.Since(start), Cost: bestCost})
		}
	}

	return s.result(dec, best, bestCost, evals, iter, start, conv, nil), nil
}

func (s *Solver) result(dec *lotsizing.Decoder, best []int, bestCost float64, evals, iters int, start time.Time, conv []opt.Sample, extra map[string]any) opt.Result {
	meta := map[string]any{
		"alpha":      s.Cfg.Alpha,
		"l_max":      s.Cfg.LMax,
		"time_limit": s.Cfg.TimeLimit.String(),
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
