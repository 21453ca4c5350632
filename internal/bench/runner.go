package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
)

// SummaryRow is one line of the batch summary: one instance, solved once.
type SummaryRow struct {
	Class string
	File  string

	T   int
	Tau float64
	Var float64

	Cost       float64
	Feasible   bool
	ElapsedSec float64
}

// Runner walks a directory of instance classes and solves every instance
// file with a fresh optimizer. Each instance gets its own seed drawn from
// the master sequence, so a batch is reproducible from MasterSeed alone.
type Runner struct {
	Factory       func(seed int64) opt.Optimizer
	MasterSeed    int64
	PerRunTimeout time.Duration // 0 = no timeout
	Log           *zap.Logger
}

// Run solves all instances under root (layout <root>/<class>/<file>.txt)
// and writes one convergence log per instance under <outDir>/logs/<class>.
// Directories with unparsable names and instances that fail to load or
// solve are logged and skipped; cancelling ctx aborts the whole batch and
// returns the rows finished so far.
func (r Runner) Run(ctx context.Context, root, outDir string) ([]SummaryRow, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	if r.Factory == nil {
		return nil, fmt.Errorf("bench: фабрика оптимизаторов не задана (nil)")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	master := randForSeed(r.MasterSeed)

	var rows []SummaryRow
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cls, err := ParseClass(e.Name())
		if err != nil {
			log.Warn("каталог пропущен: имя класса не распознано",
				zap.String("dir", e.Name()), zap.Error(err))
			continue
		}

		files, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			log.Error("каталог класса не читается",
				zap.String("dir", e.Name()), zap.Error(err))
			continue
		}

		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".txt") {
				continue
			}
			if err := ctx.Err(); err != nil {
				return rows, err
			}

			seed := 1 + master.Int63n(1_000_000_000)
			path := filepath.Join(root, e.Name(), f.Name())

			row, conv, err := r.solveOne(ctx, cls, path, f.Name(), seed)
			if err != nil {
				if ctx.Err() != nil {
					return rows, err
				}
				log.Error("инстанс пропущен", zap.String("file", path), zap.Error(err))
				continue
			}

			logPath := filepath.Join(outDir, "logs", cls.Name,
				strings.TrimSuffix(f.Name(), ".txt")+"_log.csv")
			if err := WriteConvergenceCSV(logPath, conv); err != nil {
				log.Error("лог сходимости не записан",
					zap.String("file", logPath), zap.Error(err))
			}

			log.Info("инстанс решён",
				zap.String("class", cls.Name),
				zap.String("file", f.Name()),
				zap.Float64("cost", row.Cost),
				zap.Bool("feasible", row.Feasible),
				zap.Float64("elapsed_sec", row.ElapsedSec),
				zap.Int64("seed", seed),
			)

			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (r Runner) solveOne(ctx context.Context, cls Class, path, fname string, seed int64) (SummaryRow, []opt.Sample, error) {
	inst, err := lotsizing.Load(path)
	if err != nil {
		return SummaryRow{}, nil, err
	}

	op := r.Factory(seed)

	runCtx := ctx
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
	}
	start := time.Now()
	res, err := op.Solve(runCtx, inst)
	dur := time.Since(start)
	cancel()

	if err != nil {
		// A cancelled parent aborts the batch. An expired per-run timeout
		// is a normal budget stop: the partial result stands.
		if ctx.Err() != nil || runCtx.Err() == nil {
			return SummaryRow{}, nil, fmt.Errorf("solve %s: %w", path, err)
		}
	}

	row := SummaryRow{
		Class: cls.Name,
		File:  fname,

		T:   inst.T,
		Tau: cls.Tau,
		Var: cls.Var,

		Cost:       res.Cost,
		Feasible:   res.Feasible,
		ElapsedSec: dur.Seconds(),
	}
	return row, res.Convergence, nil
}
