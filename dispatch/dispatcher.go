package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/epsilon-records/audiokit/capability"
	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/graph"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/node"
)

// Prober answers whether a node type can execute on this host.
type Prober interface {
	Available(ctx context.Context, typeName string) (capability.Availability, error)
}

// Dispatcher drives a pipeline through the per-node state machine:
// PENDING -> PROBING -> LOCAL_EXEC | REMOTE_EXEC -> DONE | FAILED, with
// SKIPPED for nodes downstream of a failure.
type Dispatcher struct {
	registry *node.Registry
	prober   Prober
	local    Executor
	remote   RemoteExecutor
	policy   Policy
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher. remote may be nil when the remote
// path is not configured; log may be nil to discard logging.
func NewDispatcher(registry *node.Registry, prober Prober, local Executor, remote RemoteExecutor, policy Policy, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		registry: registry,
		prober:   prober,
		local:    local,
		remote:   remote,
		policy:   policy,
		log:      log.WithComponent("dispatch"),
	}
}

// Run executes the pipeline level by level. Nodes within a level run
// concurrently, bounded by Policy.MaxWorkers. A node whose upstream failed
// or was skipped ends SKIPPED; cancellation skips every node that has not
// started, preserving results already produced.
func (d *Dispatcher) Run(ctx context.Context, spec *graph.Spec) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		Pipeline: spec.Name,
		Results:  make(map[string]*NodeResult),
	}
	log := d.log.WithFields(logger.Fields(
		logger.FieldPipeline, spec.Name,
		logger.FieldRunID, report.RunID,
	))
	log.Info("pipeline run started", logger.Fields("nodes", len(spec.Nodes)))

	var mu sync.Mutex
	for _, level := range spec.Levels() {
		var toRun []graph.Node
		for _, id := range level {
			n, _ := spec.NodeByID(id)

			if err := ctx.Err(); err != nil {
				report.Results[id] = skippedResult(n, "pipeline canceled")
				continue
			}
			if blocker := d.failedUpstream(spec, report, id); blocker != "" {
				report.Results[id] = skippedResult(n, "upstream node "+blocker+" did not complete")
				continue
			}
			toRun = append(toRun, n)
		}

		if len(toRun) == 0 {
			continue
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, d.concurrency(len(toRun)))
		for _, n := range toRun {
			wg.Add(1)
			go func(n graph.Node) {
				defer wg.Done()
				// Cancellation must stop nodes that have not started:
				// don't sit in the semaphore queue behind a canceled run.
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					mu.Lock()
					report.Results[n.ID] = skippedResult(n, "pipeline canceled")
					mu.Unlock()
					return
				}
				defer func() { <-sem }()

				inputs := d.gatherInputs(spec, report, &mu, n.ID)
				res := d.runNode(ctx, log, n, inputs)
				mu.Lock()
				report.Results[n.ID] = res
				mu.Unlock()
			}(n)
		}
		wg.Wait()
	}

	report.Duration = time.Since(start)
	log.Info("pipeline run finished", logger.Fields(
		"ok", report.OK(),
		"failed", len(report.Failed()),
		"skipped", len(report.Skipped()),
		logger.FieldDuration, report.Duration.String(),
	))
	return report, nil
}

// failedUpstream returns the id of a non-DONE upstream dependency, or ""
// when every dependency completed. Levels are joined before the next level
// starts, so reads here see terminal results only.
func (d *Dispatcher) failedUpstream(spec *graph.Spec, report *Report, id string) string {
	for _, up := range spec.Upstream(id) {
		res, ok := report.Results[up]
		if !ok || res.State != StateDone {
			return up
		}
	}
	return ""
}

func skippedResult(n graph.Node, reason string) *NodeResult {
	return &NodeResult{
		NodeID: n.ID,
		Type:   n.Type,
		State:  StateSkipped,
		Reason: reason,
	}
}

func (d *Dispatcher) gatherInputs(spec *graph.Spec, report *Report, mu *sync.Mutex, id string) []Artifact {
	mu.Lock()
	defer mu.Unlock()
	var inputs []Artifact
	for _, up := range spec.Upstream(id) {
		if res, ok := report.Results[up]; ok && res.State == StateDone {
			inputs = append(inputs, res.Outputs...)
		}
	}
	return inputs
}

// runNode takes one node through probing and execution to a terminal state.
func (d *Dispatcher) runNode(ctx context.Context, log *logger.Logger, n graph.Node, inputs []Artifact) *NodeResult {
	if ctx.Err() != nil {
		return skippedResult(n, "pipeline canceled")
	}

	start := time.Now()
	res := &NodeResult{NodeID: n.ID, Type: n.Type}
	nodeLog := log.WithFields(logger.Fields(
		logger.FieldNode, n.ID,
		logger.FieldNodeType, n.Type,
	))

	desc, ok := d.registry.Lookup(n.Type)
	if !ok {
		res.State = StateFailed
		res.Err = errors.CapabilityUnavailable(n.Type, "node type not registered")
		res.Duration = time.Since(start)
		return res
	}
	req := Request{
		NodeID:    n.ID,
		Type:      n.Type,
		Operation: desc.RemoteOperation,
		Params:    n.Params,
		Inputs:    inputs,
	}

	d.transition(nodeLog, res, StateProbing)
	avail, err := d.prober.Available(ctx, n.Type)
	if err != nil {
		res.State = StateFailed
		res.Err = errors.CapabilityUnavailable(n.Type, err.Error())
		res.Duration = time.Since(start)
		return res
	}

	localEligible := d.policy.AllowLocal && avail.Available
	remoteEligible := d.policy.AllowRemote && d.remote != nil && d.remote.Enabled() && desc.RemoteOperation != ""

	switch {
	case localEligible:
		d.transition(nodeLog, res, StateLocalExec)
		outputs, execErr := d.executePath(ctx, d.local, req, n.ID)
		if execErr == nil {
			d.complete(nodeLog, res, LocationLocal, outputs, start)
			return res
		}
		nodeLog.Warn("local execution failed", logger.Fields(
			logger.FieldError, execErr.Error(),
			"kind", string(errors.KindOf(execErr)),
		))

		if d.policy.FallbackToRemote && remoteEligible && errors.FallbackEligible(errors.KindOf(execErr)) {
			// Exactly one fallback hop; a remote failure here is terminal.
			d.transition(nodeLog, res, StateRemoteExec)
			outputs, remoteErr := d.executePath(ctx, d.remote, req, n.ID)
			if remoteErr == nil {
				d.complete(nodeLog, res, LocationRemote, outputs, start)
				return res
			}
			d.fail(nodeLog, res, LocationRemote, remoteErr, start)
			return res
		}
		d.fail(nodeLog, res, LocationLocal, execErr, start)
		return res

	case remoteEligible:
		d.transition(nodeLog, res, StateRemoteExec)
		outputs, execErr := d.executePath(ctx, d.remote, req, n.ID)
		if execErr == nil {
			d.complete(nodeLog, res, LocationRemote, outputs, start)
			return res
		}
		d.fail(nodeLog, res, LocationRemote, execErr, start)
		return res

	default:
		reason := avail.Reason
		if reason == "" {
			reason = "local execution disabled by policy"
		}
		res.State = StateFailed
		res.Err = errors.CapabilityUnavailable(n.Type, reason)
		res.Duration = time.Since(start)
		nodeLog.Error("node has no eligible execution path", logger.Fields(
			"reason", reason,
			"remote_eligible", remoteEligible,
		))
		return res
	}
}

// executePath runs one execution attempt under the per-node timeout and
// maps context expiry onto a timeout error.
func (d *Dispatcher) executePath(ctx context.Context, exec Executor, req Request, nodeID string) ([]Artifact, error) {
	if d.policy.NodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.policy.NodeTimeout)
		defer cancel()
	}

	outputs, err := exec.Execute(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Timeout("execute node "+nodeID, err)
		}
		return nil, err
	}
	return outputs, nil
}

func (d *Dispatcher) transition(log *logger.Logger, res *NodeResult, s State) {
	res.State = s
	log.Debug("node state changed", logger.Fields(logger.FieldState, string(s)))
}

func (d *Dispatcher) complete(log *logger.Logger, res *NodeResult, location string, outputs []Artifact, start time.Time) {
	res.State = StateDone
	res.Location = location
	res.Outputs = outputs
	res.Duration = time.Since(start)
	log.Info("node completed", logger.Fields(
		logger.FieldLocation, location,
		logger.FieldDuration, res.Duration.String(),
		"outputs", len(outputs),
	))
}

func (d *Dispatcher) fail(log *logger.Logger, res *NodeResult, location string, err error, start time.Time) {
	res.State = StateFailed
	res.Location = location
	res.Err = err
	res.Duration = time.Since(start)
	log.Error("node failed", logger.Fields(
		logger.FieldLocation, location,
		logger.FieldError, err.Error(),
		"kind", string(errors.KindOf(err)),
	))
}

func (d *Dispatcher) concurrency(levelSize int) int {
	if d.policy.MaxWorkers <= 0 || d.policy.MaxWorkers > levelSize {
		return levelSize
	}
	return d.policy.MaxWorkers
}
