package dispatch

import (
	"sort"
	"time"
)

// NodeResult is the terminal outcome of one node.
type NodeResult struct {
	// NodeID is the node this result belongs to.
	NodeID string
	// Type is the node's registered type.
	Type string
	// State is DONE, FAILED, or SKIPPED.
	State State
	// Location is where the node actually executed ("local" or
	// "remote"), empty for nodes that never executed.
	Location string
	// Outputs are the node's artifacts, present only when DONE.
	Outputs []Artifact
	// Err is the failure, present only when FAILED.
	Err error
	// Reason explains SKIPPED results (failed upstream, cancellation).
	Reason string
	// Duration covers all execution attempts of this node.
	Duration time.Duration
}

// Report aggregates one pipeline run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string
	// Pipeline is the spec name, if any.
	Pipeline string
	// Results holds the terminal result of every node.
	Results map[string]*NodeResult
	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// OK reports whether every node reached DONE.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.State != StateDone {
			return false
		}
	}
	return true
}

// Failed returns the ids of FAILED nodes, sorted.
func (r *Report) Failed() []string {
	return r.withState(StateFailed)
}

// Skipped returns the ids of SKIPPED nodes, sorted.
func (r *Report) Skipped() []string {
	return r.withState(StateSkipped)
}

// Outputs returns the artifacts of successful nodes only, keyed by node id.
func (r *Report) Outputs() map[string][]Artifact {
	out := make(map[string][]Artifact)
	for id, res := range r.Results {
		if res.State == StateDone {
			out[id] = res.Outputs
		}
	}
	return out
}

func (r *Report) withState(s State) []string {
	var ids []string
	for id, res := range r.Results {
		if res.State == s {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
