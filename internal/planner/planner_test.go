package planner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/simrigproject/simrig/internal/common/simrigerrors"
)

func TestPlan_EqualWeights(t *testing.T) {
	allocations, err := Plan(10, WeightTable{{"a", 1}, {"b", 1}})
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, 5, allocations[0].Runs)
	assert.Equal(t, 5, allocations[1].Runs)
}

func TestPlan_ProportionalWeights(t *testing.T) {
	allocations, err := Plan(8, WeightTable{{"a", 1}, {"b", 3}})
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, 0.25, allocations[0].NormalizedWeight)
	assert.Equal(t, 0.75, allocations[1].NormalizedWeight)
	assert.Equal(t, 2, allocations[0].Runs)
	assert.Equal(t, 6, allocations[1].Runs)
}

func TestPlan_ZeroRuns(t *testing.T) {
	allocations, err := Plan(0, WeightTable{{"a", 1}, {"b", 3}})
	require.NoError(t, err)
	for _, a := range allocations {
		assert.Equal(t, 0, a.Runs)
	}
}

func TestPlan_RoundsHalfToEven(t *testing.T) {
	// 5 runs split evenly give 2.5 each, which rounds to 2 both times.
	allocations, err := Plan(5, WeightTable{{"a", 1}, {"b", 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, allocations[0].Runs)
	assert.Equal(t, 2, allocations[1].Runs)

	// 7 runs give 3.5 each, which rounds to 4 both times. Independent
	// rounding means the total deviates from the requested count in both
	// directions and that is accepted.
	allocations, err = Plan(7, WeightTable{{"a", 1}, {"b", 1}})
	require.NoError(t, err)
	assert.Equal(t, 4, allocations[0].Runs)
	assert.Equal(t, 4, allocations[1].Runs)
}

func TestPlan_PreservesTableOrder(t *testing.T) {
	table := WeightTable{{"delta", 4}, {"alpha", 1}, {"charlie", 3}, {"bravo", 2}}
	allocations, err := Plan(100, table)
	require.NoError(t, err)
	require.Len(t, allocations, len(table))
	for i, sw := range table {
		assert.Equal(t, sw.Source, allocations[i].Source)
		assert.Equal(t, sw.Weight, allocations[i].Weight)
	}
}

func TestPlan_ZeroWeightSumFails(t *testing.T) {
	tests := map[string]WeightTable{
		"nil table":    nil,
		"empty table":  {},
		"zero weights": {{"a", 0}, {"b", 0}},
	}
	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			for _, runs := range []int{0, 1, 100} {
				_, err := Plan(runs, table)
				require.Error(t, err)
				var invalid *simrigerrors.ErrInvalidConfiguration
				assert.ErrorAs(t, err, &invalid)
			}
		})
	}
}

func TestPlan_NegativeInputsFail(t *testing.T) {
	_, err := Plan(-1, WeightTable{{"a", 1}})
	require.Error(t, err)

	_, err = Plan(10, WeightTable{{"a", 1}, {"b", -0.5}})
	require.Error(t, err)
	var invalid *simrigerrors.ErrInvalidConfiguration
	assert.ErrorAs(t, err, &invalid)
}

func TestPlan_SingleSourceGetsEverything(t *testing.T) {
	allocations, err := Plan(123, WeightTable{{"only", 0.25}})
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, 123, allocations[0].Runs)
	assert.Equal(t, 1.0, allocations[0].NormalizedWeight)
}

func TestPlan_AllocationFormula(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.Float64Range(0, 100), 1, 8).Draw(t, "weights")
		runs := rapid.IntRange(0, 1000).Draw(t, "runs")

		table := make(WeightTable, len(weights))
		sum := 0.0
		for i, w := range weights {
			table[i] = SourceWeight{Source: string(rune('a' + i)), Weight: w}
			sum += w
		}
		if sum == 0 {
			table[0].Weight = 1
			sum = 1
		}

		allocations, err := Plan(runs, table)
		if err != nil {
			t.Fatal(err)
		}
		if len(allocations) != len(table) {
			t.Fatalf("expected %d allocations, got %d", len(table), len(allocations))
		}
		for i, a := range allocations {
			if a.Source != table[i].Source {
				t.Errorf("allocation %d is for %s, expected %s", i, a.Source, table[i].Source)
			}
			expected := int(math.RoundToEven(table[i].Weight / sum * float64(runs)))
			if a.Runs != expected {
				t.Errorf("allocation for %s is %d, expected %d", a.Source, a.Runs, expected)
			}
			if a.Runs < 0 {
				t.Errorf("allocation for %s is negative", a.Source)
			}
		}
	})
}
