package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"lotSizing/internal/opt"
)

func createCSV(path string) (*os.File, error) {
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func WriteSummaryCSV(path string, rows []SummaryRow) error {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"class", "file", "T", "tau", "var", "cost", "feasible", "elapsed_sec"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.Class,
			r.File,
			itoa(r.T),
			ftrim(r.Tau),
			ftrim(r.Var),
			ftoa(r.Cost),
			strconv.FormatBool(r.Feasible),
			ftoa(r.ElapsedSec),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func ReadSummaryCSV(r io.Reader) ([]SummaryRow, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("summary: пустой CSV")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range []string{"class", "file", "T", "tau", "var", "cost", "feasible", "elapsed_sec"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("summary: нет колонки %q", name)
		}
	}

	rows := make([]SummaryRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := SummaryRow{
			Class: rec[col["class"]],
			File:  rec[col["file"]],
		}
		if row.T, err = parseInt("T", rec[col["T"]]); err != nil {
			return nil, err
		}
		if row.Tau, err = parseFloat("tau", rec[col["tau"]]); err != nil {
			return nil, err
		}
		if row.Var, err = parseFloat("var", rec[col["var"]]); err != nil {
			return nil, err
		}
		if row.Cost, err = parseFloat("cost", rec[col["cost"]]); err != nil {
			return nil, err
		}
		if row.Feasible, err = parseBool("feasible", rec[col["feasible"]]); err != nil {
			return nil, err
		}
		if row.ElapsedSec, err = parseFloat("elapsed_sec", rec[col["elapsed_sec"]]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func LoadSummaryCSV(path string) ([]SummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadSummaryCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// WriteConvergenceCSV stores the incumbent trajectory of a single run:
// one (elapsed_sec, cost) row per improvement.
func WriteConvergenceCSV(path string, samples []opt.Sample) error {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"elapsed_sec", "cost"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			ftoa(s.Elapsed.Seconds()),
			ftoa(s.Cost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func WriteAggregateCSV(path string, stats []ClassStats) error {
	f, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"class", "n", "feasible",
		"cost_best", "cost_mean", "cost_std", "cost_median",
		"time_mean_sec",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range stats {
		row := []string{
			s.Class,
			itoa(s.N),
			itoa(s.FeasibleN),
			"", "", "", "",
			ftoa(s.TimeMeanSec),
		}
		if s.Cost.N > 0 {
			row[3] = ftoa(s.Cost.Best)
			row[4] = ftoa(s.Cost.Mean)
			row[5] = ftoa(s.Cost.Std)
			row[6] = ftoa(s.Cost.Median)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
