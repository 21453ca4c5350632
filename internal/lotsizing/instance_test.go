package lotsizing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lotSizing/internal/lotsizing"
)

func scenarioA() *lotsizing.Instance {
	return &lotsizing.Instance{
		T:      3,
		Demand: []float64{10, 10, 10},
		Setup:  []float64{5, 5, 5},
		Prod:   []float64{1, 1, 1},
		Hold:   []float64{1, 1, 1},
		Cap:    []float64{30, 30, 30},
	}
}

func TestInstanceValidate(t *testing.T) {
	inst := scenarioA()
	require.NoError(t, inst.Validate())
}

func TestInstanceValidateNil(t *testing.T) {
	var inst *lotsizing.Instance
	require.Error(t, inst.Validate())
}

func TestInstanceValidateBadPeriods(t *testing.T) {
	inst := scenarioA()
	inst.T = 0
	require.Error(t, inst.Validate())
}

func TestInstanceValidateLengthMismatch(t *testing.T) {
	inst := scenarioA()
	inst.Hold = inst.Hold[:2]
	err := inst.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "hold")
}

func TestInstanceValidateNegativeDemand(t *testing.T) {
	inst := scenarioA()
	inst.Demand[1] = -1
	require.Error(t, inst.Validate())
}

func TestInstanceValidateNegativeCapacity(t *testing.T) {
	inst := scenarioA()
	inst.Cap[0] = -5
	require.Error(t, inst.Validate())
}

func TestNewInstance(t *testing.T) {
	a := scenarioA()
	inst, err := lotsizing.NewInstance(a.T, a.Demand, a.Setup, a.Prod, a.Hold, a.Cap)
	require.NoError(t, err)
	require.Equal(t, 3, inst.T)

	_, err = lotsizing.NewInstance(4, a.Demand, a.Setup, a.Prod, a.Hold, a.Cap)
	require.Error(t, err)
}

func TestInstanceTotals(t *testing.T) {
	inst := scenarioA()
	require.InDelta(t, 30.0, inst.TotalDemand(), 1e-12)
	require.InDelta(t, 90.0, inst.TotalCapacity(), 1e-12)
}

func TestValidateSetups(t *testing.T) {
	require.NoError(t, lotsizing.ValidateSetups([]int{1, 0, 1}, 3))
	require.Error(t, lotsizing.ValidateSetups([]int{1, 0}, 3))
	require.Error(t, lotsizing.ValidateSetups([]int{1, 2, 0}, 3))
}
