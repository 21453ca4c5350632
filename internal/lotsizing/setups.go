package lotsizing

import "fmt"

func ValidateSetups(y []int, n int) error {
	if len(y) != n {
		return fmt.Errorf("setup vector length must be %d (got %d)", n, len(y))
	}
	for t, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("y[%d]=%d must be 0 or 1", t, v)
		}
	}
	return nil
}
