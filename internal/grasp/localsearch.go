package grasp

import (
	"time"

	"lotSizing/internal/lotsizing"
)

// localSearch — локальный спуск по окрестности одиночных флипов:
// первый улучшающий флип принимается и обход начинается заново,
// неулучшающий флип откатывается. Остановка — локальный оптимум
// (полный обход без улучшения) или дедлайн; дедлайн проверяется
// перед каждым обходом и перед каждым флипом. Вектор y модифицируется
// на месте; возвращаются его стоимость и число вызовов декодера.
func localSearch(dec *lotsizing.Decoder, y []int, deadline time.Time) (float64, int) {
	best := dec.MustScore(y)
	evals := 1

	improved := true
	for improved {
		if !time.Now().Before(deadline) {
			break
		}
		improved = false
		for t := 0; t < len(y); t++ {
			if !time.Now().Before(deadline) {
				return best, evals
			}

			y[t] ^= 1
			cost := dec.MustScore(y)
			evals++

			if cost < best {
				best = cost
				improved = true
				break
			}
			y[t] ^= 1
		}
	}
	return best, evals
}
