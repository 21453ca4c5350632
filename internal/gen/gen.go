// Package gen synthesizes benchmark instances of the capacitated
// single-item lot-sizing problem. Costs are integer-uniform, demand and
// capacity are truncated normals; capacities are rescaled so that an
// instance is never infeasible by total volume alone.
package gen

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lotSizing/internal/lotsizing"
)

const (
	prodCostLo = 10
	prodCostHi = 20
	holdCostLo = 1
	holdCostHi = 5

	// Setup cost is a multiple of the period's holding cost, so that the
	// setup/holding trade-off stays in a meaningful range at any scale.
	setupRatioLo = 50
	setupRatioHi = 150

	// Demand is clipped from below at this fraction of the mean.
	demandFloorFrac = 0.1

	// Relative spread of the capacity distribution around mean(d)*tau.
	capSpread = 0.2

	// After rescaling, total capacity exceeds total demand by this factor.
	rescaleSlack = 1.10
)

// RandomInstance samples one instance with horizon T, capacity tightness
// tau and demand coefficient of variation demandVar. All values are drawn
// as truncated integers. Panics on invalid parameters.
func RandomInstance(T int, tau, demandVar, meanDemand float64, rng *rand.Rand) *lotsizing.Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if T <= 0 || tau <= 0 || demandVar < 0 || meanDemand <= 0 {
		panic(fmt.Sprintf("gen: bad parameters T=%d tau=%g var=%g mean=%g", T, tau, demandVar, meanDemand))
	}

	prod := make([]float64, T)
	hold := make([]float64, T)
	setup := make([]float64, T)
	for t := 0; t < T; t++ {
		prod[t] = float64(intBetween(rng, prodCostLo, prodCostHi))
	}
	for t := 0; t < T; t++ {
		hold[t] = float64(intBetween(rng, holdCostLo, holdCostHi))
	}
	for t := 0; t < T; t++ {
		setup[t] = hold[t] * float64(intBetween(rng, setupRatioLo, setupRatioHi))
	}

	demand := make([]float64, T)
	floor := meanDemand * demandFloorFrac
	std := meanDemand * demandVar
	for t := 0; t < T; t++ {
		d := rng.NormFloat64()*std + meanDemand
		if d < floor {
			d = floor
		}
		demand[t] = math.Trunc(d)
	}

	meanD := 0.0
	for _, d := range demand {
		meanD += d
	}
	meanD /= float64(T)

	capMean := meanD * tau
	capStd := capMean * capSpread
	capacity := make([]float64, T)
	for t := 0; t < T; t++ {
		c := rng.NormFloat64()*capStd + capMean
		if c < 0 {
			c = 0
		}
		capacity[t] = math.Trunc(c)
	}

	totalD, totalC := 0.0, 0.0
	for t := 0; t < T; t++ {
		totalD += demand[t]
		totalC += capacity[t]
	}
	if totalC < totalD {
		factor := rescaleSlack
		if totalC > 0 {
			factor = totalD / totalC * rescaleSlack
		}
		zeroFloor := math.Trunc(capMean * demandFloorFrac)
		if capMean <= 0 {
			zeroFloor = 1
		}
		for t := 0; t < T; t++ {
			capacity[t] = math.Trunc(capacity[t] * factor)
			if capacity[t] == 0 {
				capacity[t] = zeroFloor
			}
		}
	}

	inst, err := lotsizing.NewInstance(T, demand, setup, prod, hold, capacity)
	if err != nil {
		panic(err)
	}
	return inst
}

// intBetween draws an integer uniformly from [lo, hi].
func intBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// ClassName renders the canonical class directory name, e.g.
// "T50_tau1.5_var0.2". Integral parameters keep one decimal ("2.0") so the
// names stay stable across plans.
func ClassName(T int, tau, demandVar float64) string {
	return fmt.Sprintf("T%d_tau%s_var%s", T, formatParam(tau), formatParam(demandVar))
}

func formatParam(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Generate writes the full grid of plan under outDir, one directory per
// class with files inst_01.txt .. inst_NN.txt. Every instance gets its own
// seed derived from plan.Seed by a running counter, so a plan always
// reproduces the same files. Returns the number of instances written.
func Generate(plan Plan, outDir string) (int, error) {
	if err := plan.Validate(); err != nil {
		return 0, err
	}

	written := 0
	counter := int64(0)
	for _, T := range plan.Horizons {
		for _, tau := range plan.Taus {
			for _, dv := range plan.Vars {
				classDir := filepath.Join(outDir, ClassName(T, tau, dv))
				if err := os.MkdirAll(classDir, 0o755); err != nil {
					return written, err
				}
				for i := 1; i <= plan.PerClass; i++ {
					rng := rand.New(rand.NewSource(plan.Seed + counter))
					counter++

					inst := RandomInstance(T, tau, dv, plan.MeanDemand, rng)
					path := filepath.Join(classDir, fmt.Sprintf("inst_%02d.txt", i))
					if err := lotsizing.Save(path, inst); err != nil {
						return written, err
					}
					written++
				}
			}
		}
	}
	return written, nil
}
