package baseline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotSizing/internal/baseline"
	"lotSizing/internal/bench"
)

func TestCompare(t *testing.T) {
	rows := []bench.SummaryRow{
		{Class: "B", File: "inst_01.txt", Cost: 120, Feasible: true, ElapsedSec: 0.5},
		{Class: "A", File: "inst_01.txt", Cost: 1e15, Feasible: false, ElapsedSec: 1.0},
		{Class: "A", File: "inst_02.txt", Cost: 50, Feasible: true, ElapsedSec: 0.25},
	}
	records := []baseline.Record{
		{Class: "B", File: "inst_01.txt", Status: baseline.StatusOptimal, Objective: fptr(100), Bound: fptr(100), RuntimeSeconds: 12},
		{Class: "A", File: "inst_01.txt", Status: baseline.StatusTimeLimit, Objective: fptr(90), Bound: fptr(80), RuntimeSeconds: 1800},
	}

	comps := baseline.Compare(rows, records)
	require.Len(t, comps, 3)

	// Отсортировано по (class, file).
	assert.Equal(t, "A", comps[0].Class)
	assert.Equal(t, "inst_01.txt", comps[0].File)
	assert.Equal(t, "A", comps[1].Class)
	assert.Equal(t, "inst_02.txt", comps[1].File)
	assert.Equal(t, "B", comps[2].Class)

	// Недопустимое решение эвристики: зазор не определён.
	infeasible := comps[0]
	assert.Equal(t, baseline.StatusTimeLimit, infeasible.Status)
	require.NotNil(t, infeasible.BaselineGap)
	assert.InDelta(t, 10.0/90.0, *infeasible.BaselineGap, 1e-12)
	assert.Nil(t, infeasible.GapToBaseline)

	// Строка без записи в базе: поля базы пустые.
	unmatched := comps[1]
	assert.Equal(t, baseline.Status(""), unmatched.Status)
	assert.Nil(t, unmatched.Objective)
	assert.Nil(t, unmatched.GapToBaseline)

	matched := comps[2]
	require.NotNil(t, matched.GapToBaseline)
	assert.InDelta(t, 0.2, *matched.GapToBaseline, 1e-12)
	require.NotNil(t, matched.BaselineGap)
	assert.Zero(t, *matched.BaselineGap)
	assert.Equal(t, 12.0, matched.RuntimeSeconds)
}

func TestAggregateGaps(t *testing.T) {
	comps := []baseline.Comparison{
		{Class: "A", GapToBaseline: fptr(0.1)},
		{Class: "A", GapToBaseline: fptr(0.3)},
		{Class: "A"},
		{Class: "B"},
	}

	gaps := baseline.AggregateGaps(comps)
	require.Len(t, gaps, 2)

	a := gaps[0]
	assert.Equal(t, "A", a.Class)
	assert.Equal(t, 3, a.N)
	assert.Equal(t, 2, a.Matched)
	assert.InDelta(t, 0.2, a.MeanGap, 1e-12)
	assert.InDelta(t, 0.3, a.MaxGap, 1e-12)

	b := gaps[1]
	assert.Equal(t, 1, b.N)
	assert.Equal(t, 0, b.Matched)
}

func TestWriteComparisonCSV(t *testing.T) {
	comps := []baseline.Comparison{
		{
			Class: "A", File: "inst_01.txt",
			HeuristicCost: 120, Feasible: true, ElapsedSec: 0.5,
			Status: baseline.StatusOptimal, Objective: fptr(100),
			BaselineGap: fptr(0), RuntimeSeconds: 12, GapToBaseline: fptr(0.2),
		},
		{Class: "A", File: "inst_02.txt", HeuristicCost: 50, Feasible: true, ElapsedSec: 0.25},
	}

	path := filepath.Join(t.TempDir(), "out", "comparison.csv")
	require.NoError(t, baseline.WriteComparisonCSV(path, comps))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "class,file,cost,feasible,elapsed_sec,status,objective,mip_gap,runtime_sec,gap_to_baseline", lines[0])
	assert.Equal(t, "A,inst_01.txt,120.000000,true,0.500000,OPTIMAL,100.000000,0.000000,12.000000,0.200000", lines[1])
	assert.Equal(t, "A,inst_02.txt,50.000000,true,0.250000,,,,0.000000,", lines[2])
}

func TestWriteGapCSV(t *testing.T) {
	gaps := []baseline.ClassGap{
		{Class: "A", N: 3, Matched: 2, MeanGap: 0.2, MaxGap: 0.3},
		{Class: "B", N: 1, Matched: 0},
	}

	path := filepath.Join(t.TempDir(), "gaps.csv")
	require.NoError(t, baseline.WriteGapCSV(path, gaps))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "class,n,matched,gap_mean,gap_max", lines[0])
	assert.Equal(t, "A,3,2,0.200000,0.300000", lines[1])
	assert.Equal(t, "B,1,0,,", lines[2])
}
