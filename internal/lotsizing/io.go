package lotsizing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses the plain-text instance format: line 1 holds T, lines 2-6 hold
// T whitespace-separated numbers each, in order demand, setup cost,
// production cost, holding cost, capacity. Blank lines are skipped.
func Read(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make([]string, 0, 6)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 6 {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 6 {
		return nil, fmt.Errorf("instance must have 6 non-empty lines (got %d)", len(lines))
	}

	t, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fmt.Errorf("parse periods %q: %w", lines[0], err)
	}

	names := [5]string{"demand", "setup", "prod", "hold", "cap"}
	arrays := [5][]float64{}
	for i, name := range names {
		vals, err := parseFloats(lines[i+1])
		if err != nil {
			return nil, fmt.Errorf("parse %s line: %w", name, err)
		}
		if len(vals) != t {
			return nil, fmt.Errorf("%s length must be %d (got %d)", name, t, len(vals))
		}
		arrays[i] = vals
	}

	return NewInstance(t, arrays[0], arrays[1], arrays[2], arrays[3], arrays[4])
}

func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func Write(w io.Writer, inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", inst.T)
	for _, arr := range [][]float64{inst.Demand, inst.Setup, inst.Prod, inst.Hold, inst.Cap} {
		for i, v := range arr {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func Save(path string, inst *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, inst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d %q: %w", i+1, f, err)
		}
		vals[i] = v
	}
	return vals, nil
}
