package baseline

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"lotSizing/internal/bench"
)

// Comparison joins one heuristic summary row with the baseline record for
// the same instance. Baseline fields stay zero when no record matches.
type Comparison struct {
	Class string
	File  string

	HeuristicCost float64
	Feasible      bool
	ElapsedSec    float64

	Status         Status
	Objective      *float64
	BaselineGap    *float64
	RuntimeSeconds float64

	// GapToBaseline = (heuristic - objective) / |objective|. Nil when the
	// heuristic found no feasible solution or the baseline reported no
	// objective.
	GapToBaseline *float64
}

// Compare matches rows and records on (class, file). The result is sorted
// by class, then file.
func Compare(rows []bench.SummaryRow, records []Record) []Comparison {
	idx := make(map[string]Record, len(records))
	for _, rec := range records {
		idx[rec.Class+"/"+rec.File] = rec
	}

	comps := make([]Comparison, 0, len(rows))
	for _, row := range rows {
		c := Comparison{
			Class: row.Class,
			File:  row.File,

			HeuristicCost: row.Cost,
			Feasible:      row.Feasible,
			ElapsedSec:    row.ElapsedSec,
		}

		if rec, ok := idx[row.Class+"/"+row.File]; ok {
			c.Status = rec.Status
			c.Objective = rec.Objective
			c.RuntimeSeconds = rec.RuntimeSeconds
			if g, ok := rec.Gap(); ok {
				c.BaselineGap = &g
			}
			if row.Feasible && rec.Objective != nil && math.Abs(*rec.Objective) > 1e-9 {
				gap := (row.Cost - *rec.Objective) / math.Abs(*rec.Objective)
				c.GapToBaseline = &gap
			}
		}

		comps = append(comps, c)
	}

	sort.Slice(comps, func(i, j int) bool {
		if comps[i].Class != comps[j].Class {
			return comps[i].Class < comps[j].Class
		}
		return comps[i].File < comps[j].File
	})
	return comps
}

// ClassGap summarises the gap to baseline over one instance class.
type ClassGap struct {
	Class   string
	N       int
	Matched int

	MeanGap float64
	MaxGap  float64
}

// AggregateGaps groups comparisons per class; gap statistics cover only
// rows where GapToBaseline is defined.
func AggregateGaps(comps []Comparison) []ClassGap {
	byClass := make(map[string][]Comparison)
	names := make([]string, 0)
	for _, c := range comps {
		if _, ok := byClass[c.Class]; !ok {
			names = append(names, c.Class)
		}
		byClass[c.Class] = append(byClass[c.Class], c)
	}
	sort.Strings(names)

	out := make([]ClassGap, 0, len(names))
	for _, name := range names {
		grp := byClass[name]
		cg := ClassGap{Class: name, N: len(grp)}

		gaps := make([]float64, 0, len(grp))
		for _, c := range grp {
			if c.GapToBaseline != nil {
				gaps = append(gaps, *c.GapToBaseline)
			}
		}
		cg.Matched = len(gaps)
		if len(gaps) > 0 {
			cg.MeanGap = stat.Mean(gaps, nil)
			cg.MaxGap = gaps[0]
			for _, g := range gaps[1:] {
				if g > cg.MaxGap {
					cg.MaxGap = g
				}
			}
		}
		out = append(out, cg)
	}
	return out
}

func WriteComparisonCSV(path string, comps []Comparison) error {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"class", "file",
		"cost", "feasible", "elapsed_sec",
		"status", "objective", "mip_gap", "runtime_sec",
		"gap_to_baseline",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, c := range comps {
		row := []string{
			c.Class,
			c.File,
			fmtFloat(c.HeuristicCost),
			strconv.FormatBool(c.Feasible),
			fmtFloat(c.ElapsedSec),
			string(c.Status),
			fmtOptFloat(c.Objective),
			fmtOptFloat(c.BaselineGap),
			fmtFloat(c.RuntimeSeconds),
			fmtOptFloat(c.GapToBaseline),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func WriteGapCSV(path string, gaps []ClassGap) error {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"class", "n", "matched", "gap_mean", "gap_max"}); err != nil {
		return err
	}
	for _, g := range gaps {
		row := []string{
			g.Class,
			strconv.Itoa(g.N),
			strconv.Itoa(g.Matched),
			"", "",
		}
		if g.Matched > 0 {
			row[3] = fmtFloat(g.MeanGap)
			row[4] = fmtFloat(g.MaxGap)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func createCSV(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func fmtOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}
