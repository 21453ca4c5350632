package grasp

import (
	"fmt"
	"time"
)

type Config struct {
	MaxIter int

	Alpha float64
	LMax  int

	TimeLimit time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxIter: 200,

		Alpha: 0.3,
		LMax:  10,

		TimeLimit: 30 * time.Minute,
	}
}

func (c Config) Validate() error {
	if c.MaxIter <= 0 {
		return fmt.Errorf(
			"MaxIter должно быть > 0 (получено %d)",
			c.MaxIter,
		)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале [0,1] (получено %f)",
			c.Alpha,
		)
	}
	if c.LMax < 1 {
		return fmt.Errorf(
			"LMax должно быть >= 1 (получено %d)",
			c.LMax,
		)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf(
			"TimeLimit должно быть > 0 (получено %v)",
			c.TimeLimit,
		)
	}
	return nil
}
