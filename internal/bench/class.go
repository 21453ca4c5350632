package bench

import (
	"fmt"
	"strconv"
	"strings"
)

// Class identifies one instance directory. The directory name encodes the
// generation parameters, e.g. "T100_tau1.5_var0.8".
type Class struct {
	Name string
	T    int
	Tau  float64
	Var  float64
}

// ParseClass extracts the T, tau and var tokens from a class directory
// name. All three must be present.
func ParseClass(name string) (Class, error) {
	c := Class{Name: name}
	var haveT, haveTau, haveVar bool

	for _, tok := range strings.Split(name, "_") {
		switch {
		case strings.HasPrefix(tok, "tau"):
			v, err := strconv.ParseFloat(tok[len("tau"):], 64)
			if err != nil {
				return Class{}, fmt.Errorf("class %q: token %q: %w", name, tok, err)
			}
			c.Tau = v
			haveTau = true
		case strings.HasPrefix(tok, "var"):
			v, err := strconv.ParseFloat(tok[len("var"):], 64)
			if err != nil {
				return Class{}, fmt.Errorf("class %q: token %q: %w", name, tok, err)
			}
			c.Var = v
			haveVar = true
		case strings.HasPrefix(tok, "T"):
			v, err := strconv.Atoi(tok[len("T"):])
			if err != nil {
				return Class{}, fmt.Errorf("class %q: token %q: %w", name, tok, err)
			}
			c.T = v
			haveT = true
		}
	}

	if !haveT || !haveTau || !haveVar {
		return Class{}, fmt.Errorf("class %q: want tokens T<int>, tau<float>, var<float>", name)
	}
	return c, nil
}
