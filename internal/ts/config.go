package ts

import "fmt"

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	NeighborhoodFlip Neighborhood = "flip"
	NeighborhoodPair Neighborhood = "pair"
)

type Config struct {
	Iterations          int
	IterationsPerPeriod int

	TabuTenure int

	TabuTenureRand int

	NeighborsPerIter int

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:          0,
		IterationsPerPeriod: 200,

		TabuTenure:     9,
		TabuTenureRand: 4,

		NeighborsPerIter: 40,
		Neighborhood:     NeighborhoodFlip,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerPeriod <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerPeriod > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodFlip, NeighborhoodPair:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
