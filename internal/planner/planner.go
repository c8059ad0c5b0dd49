package planner

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/simrigproject/simrig/internal/common/simrigerrors"
)

// SourceWeight pairs a datasource name with its configured weight.
type SourceWeight struct {
	Source string
	Weight float64
}

// WeightTable is an ordered list of datasource weights. Order determines the
// order allocations are produced in, not the arithmetic.
type WeightTable []SourceWeight

// Allocation is the planned number of runs for one datasource.
type Allocation struct {
	Source           string
	Weight           float64
	NormalizedWeight float64
	Runs             int
}

// Plan distributes totalRuns across the table's datasources in proportion to
// their weights. Each count is round(weight/sum * totalRuns) under
// round-half-to-even, computed independently per datasource, so the counts
// need not sum exactly to totalRuns.
//
// A table with no strictly positive weight cannot be planned and yields an
// error, as do negative weights and a negative totalRuns. totalRuns == 0 is
// valid and yields all-zero counts.
func Plan(totalRuns int, table WeightTable) ([]Allocation, error) {
	if totalRuns < 0 {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    "totalRuns",
			Value:   totalRuns,
			Message: "total number of runs cannot be negative",
		})
	}
	sum := 0.0
	for _, sw := range table {
		if sw.Weight < 0 {
			return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
				Name:    "weights",
				Value:   sw.Weight,
				Message: fmt.Sprintf("weight of datasource %s cannot be negative", sw.Source),
			})
		}
		sum += sw.Weight
	}
	if sum == 0 {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    "weights",
			Value:   sum,
			Message: "weights must include at least one positive value",
		})
	}
	allocations := make([]Allocation, len(table))
	for i, sw := range table {
		normalized := sw.Weight / sum
		allocations[i] = Allocation{
			Source:           sw.Source,
			Weight:           sw.Weight,
			NormalizedWeight: normalized,
			Runs:             int(math.RoundToEven(normalized * float64(totalRuns))),
		}
	}
	return allocations, nil
}
