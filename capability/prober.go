package capability

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/node"
)

// Availability is a probe verdict for one node type.
type Availability struct {
	// Available reports whether the type can run locally right now.
	Available bool
	// Reason names the first unmet requirement when unavailable.
	Reason string
}

// Prober evaluates node type requirements against the host environment.
// Create one per pipeline execution; results are cached for its lifetime.
type Prober struct {
	detector Detector
	registry *node.Registry
	log      *logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	snap  *Snapshot
	cache map[string]Availability
}

// NewProber creates a prober. A nil log discards probe logging.
func NewProber(detector Detector, registry *node.Registry, log *logger.Logger) *Prober {
	if log == nil {
		log = logger.Nop()
	}
	return &Prober{
		detector: detector,
		registry: registry,
		log:      log.WithComponent("capability"),
		cache:    make(map[string]Availability),
	}
}

// Available reports whether the node type can execute locally. Concurrent
// calls for the same type collapse into one evaluation; the verdict is then
// served from cache until Refresh.
func (p *Prober) Available(ctx context.Context, typeName string) (Availability, error) {
	p.mu.RLock()
	cached, hit := p.cache[typeName]
	p.mu.RUnlock()
	if hit {
		return cached, nil
	}

	v, err, _ := p.group.Do(typeName, func() (any, error) {
		return p.probe(ctx, typeName)
	})
	if err != nil {
		return Availability{}, err
	}
	return v.(Availability), nil
}

// Refresh drops the cached snapshot and verdicts so the next probe sees the
// current environment.
func (p *Prober) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = nil
	p.cache = make(map[string]Availability)
}

func (p *Prober) probe(ctx context.Context, typeName string) (Availability, error) {
	desc, ok := p.registry.Lookup(typeName)
	if !ok {
		return Availability{}, fmt.Errorf("capability: unknown node type %q", typeName)
	}

	snap, err := p.snapshot(ctx)
	if err != nil {
		return Availability{}, fmt.Errorf("capability: environment snapshot: %w", err)
	}

	verdict := evaluate(desc.Requires, snap)

	p.mu.Lock()
	p.cache[typeName] = verdict
	p.mu.Unlock()

	p.log.Debug("probed node type", logger.Fields(
		logger.FieldNodeType, typeName,
		"available", verdict.Available,
		"reason", verdict.Reason,
	))
	return verdict, nil
}

func (p *Prober) snapshot(ctx context.Context) (*Snapshot, error) {
	p.mu.RLock()
	snap := p.snap
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	v, err, _ := p.group.Do("__snapshot", func() (any, error) {
		return p.detector.Snapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	snap = v.(*Snapshot)

	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
	return snap, nil
}

// evaluate checks every declared requirement against the snapshot. The
// first unmet requirement becomes the reason.
func evaluate(req node.Requirements, snap *Snapshot) Availability {
	if req.Accelerator != "" && snap.Accelerator != req.Accelerator {
		return Availability{Reason: fmt.Sprintf("requires %s accelerator", req.Accelerator)}
	}
	// Zero means the platform could not report memory; only a known
	// shortfall blocks local execution.
	if req.MinMemoryMB > 0 && snap.MemoryMB > 0 && snap.MemoryMB < req.MinMemoryMB {
		return Availability{Reason: fmt.Sprintf("requires %d MB memory, %d MB available", req.MinMemoryMB, snap.MemoryMB)}
	}
	for _, w := range req.Weights {
		if !snap.Weights[w] {
			return Availability{Reason: fmt.Sprintf("model weights %q not installed", w)}
		}
	}
	if req.Binary != "" && !snap.Binaries[req.Binary] {
		return Availability{Reason: fmt.Sprintf("model binary %q not found", req.Binary)}
	}
	return Availability{Available: true}
}
