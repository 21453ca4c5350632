package grasp

import (
	"math/rand"

	"lotSizing/internal/lotsizing"
)

// capTol — запас при проверке вместимости лота,
// rclEps — сдвиг порога RCL и знаменателя средней стоимости.
const (
	capTol = 1e-6
	rclEps = 1e-9
)

// candidate — кандидатный лот длины length с приближённой средней
// стоимостью покрытия единицы спроса.
type candidate struct {
	length int
	avg    float64
}

// construct заполняет y жадно-рандомизированной конструкцией: курсор t
// двигается по горизонту, на каждом шаге длина лота выбирается случайно
// из RCL. Средняя стоимость лота считается в приближении «всё
// производится в периоде t и хранится до потребления», что даёт ранжирование
// за O(LMax) вместо полного декодирования.
func construct(inst *lotsizing.Instance, y []int, alpha float64, lMax int, rng *rand.Rand) {
	T := inst.T
	for t := range y {
		y[t] = 0
	}

	cands := make([]candidate, 0, lMax)
	rcl := make([]candidate, 0, lMax)

	t := 0
	for t < T {
		cands = cands[:0]

		maxL := lMax
		if T-t < maxL {
			maxL = T - t
		}

		dem := 0.0
		prod := 0.0
		hold := 0.0
		cum := 0.0
		for L := 1; L <= maxL; L++ {
			end := t + L - 1
			dem += inst.Demand[end]
			prod += inst.Prod[end] * inst.Demand[end]
			if L > 1 {
				cum += inst.Demand[end]
				hold += inst.Hold[end] * cum
			}

			// Мощности периода t не хватает на весь лот
			if inst.Cap[t]+capTol < dem {
				continue
			}

			avg := (inst.Setup[t] + prod + hold) / (dem + rclEps)
			cands = append(cands, candidate{length: L, avg: avg})
		}

		// Ни один лот не проходит по мощности — принудительный запуск в t
		if len(cands) == 0 {
			y[t] = 1
			t++
			continue
		}

		cMin, cMax := cands[0].avg, cands[0].avg
		for _, c := range cands[1:] {
			if c.avg < cMin {
				cMin = c.avg
			}
			if c.avg > cMax {
				cMax = c.avg
			}
		}
		thresh := cMin + alpha*(cMax-cMin+rclEps)

		rcl = rcl[:0]
		for _, c := range cands {
			if c.avg <= thresh {
				rcl = append(rcl, c)
			}
		}

		chosen := rcl[rng.Intn(len(rcl))]
		y[t] = 1
		t += chosen.length
	}
}
