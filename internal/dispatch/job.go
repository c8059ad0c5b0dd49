package dispatch

import (
	"context"
	"encoding/json"
)

// JobSpec is the immutable parameter record handed to one solve invocation.
// RunNo is a 1-based sequence number within the batch, kept as text because
// that is what solve commands consume.
type JobSpec struct {
	RunNo      string
	Randomized bool
	Datasource string
	Options    map[string]interface{}
}

// MarshalJSON renders the spec as a single flat object: the fixed fields
// plus every runtime option at the top level. Options win collisions with
// the fixed field names.
func (s JobSpec) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(s.Options)+3)
	m["run_no"] = s.RunNo
	m["randomized"] = s.Randomized
	if s.Datasource != "" {
		m["datasource"] = s.Datasource
	}
	for k, v := range s.Options {
		m[k] = v
	}
	return json.Marshal(m)
}

// JobBatch is an ordered sequence of job specifications. A batch is built
// fresh for every dispatch and never mutated once dispatch begins.
type JobBatch []JobSpec

// SolveFunc executes a single job. Implementations are expected to provide
// their own isolation between concurrent invocations; the dispatcher shares
// nothing between jobs beyond the ctx it was given.
type SolveFunc func(ctx context.Context, spec JobSpec) error
