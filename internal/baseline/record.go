// Package baseline compares heuristic results against an exact MIP
// baseline. The MIP itself runs elsewhere; only its reported objective,
// bound and status enter the comparison.
package baseline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Status follows the vocabulary of the MIP solver logs.
type Status string

const (
	StatusOptimal     Status = "OPTIMAL"
	StatusInfeasible  Status = "INFEASIBLE"
	StatusUnbounded   Status = "UNBOUNDED"
	StatusInfOrUnbd   Status = "INF_OR_UNBD"
	StatusTimeLimit   Status = "TIME_LIMIT"
	StatusInterrupted Status = "INTERRUPTED"
	StatusSuboptimal  Status = "SUBOPTIMAL"
)

// Record is one solved instance of the baseline. Objective and Bound are
// nil when the solver reported none (infeasible model, hit the limit
// before an incumbent).
type Record struct {
	Class string
	File  string

	Status    Status
	Objective *float64
	Bound     *float64

	RuntimeSeconds float64
}

// Gap returns the relative optimality gap |obj-bound| / |obj| when both
// values are present and the objective is not numerically zero.
func (r Record) Gap() (float64, bool) {
	if r.Objective == nil || r.Bound == nil {
		return 0, false
	}
	obj := *r.Objective
	if math.Abs(obj) <= 1e-9 {
		return 0, false
	}
	return math.Abs(obj-*r.Bound) / math.Abs(obj), true
}

// ReadRecords parses baseline CSV with columns class, file, status,
// objective, bound, runtime_sec. Empty objective and bound cells become
// nil. Extra columns are ignored.
func ReadRecords(r io.Reader) ([]Record, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("baseline: пустой CSV")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"class", "file", "status", "objective", "bound", "runtime_sec"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("baseline: нет колонки %q", name)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{
			Class:  row[col["class"]],
			File:   row[col["file"]],
			Status: Status(row[col["status"]]),
		}
		if rec.Objective, err = parseOptFloat("objective", row[col["objective"]]); err != nil {
			return nil, err
		}
		if rec.Bound, err = parseOptFloat("bound", row[col["bound"]]); err != nil {
			return nil, err
		}
		rt, err := strconv.ParseFloat(row[col["runtime_sec"]], 64)
		if err != nil {
			return nil, fmt.Errorf("column runtime_sec: %w", err)
		}
		rec.RuntimeSeconds = rt
		records = append(records, rec)
	}
	return records, nil
}

func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func parseOptFloat(col, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &v, nil
}
