package dispatch

import (
	"context"

	"github.com/epsilon-records/audiokit/remote"
)

// Artifact is a node input or output reference: a file path, raw bytes, or
// both, plus operation-specific metadata.
type Artifact struct {
	// NodeID is the producing node.
	NodeID string
	// Name distinguishes multiple outputs of one node (e.g. stem names).
	Name string
	// Path references an output file, when the executor wrote one.
	Path string
	// Data holds in-memory output, when no file was written.
	Data []byte
	// Meta carries operation-specific result fields.
	Meta map[string]any
}

// Request is one node execution handed to an executor.
type Request struct {
	// NodeID is the node being executed.
	NodeID string
	// Type is the registered node type.
	Type string
	// Operation is the remote operation name from the type's descriptor.
	// Empty for local-only types.
	Operation string
	// Params is the validated parameter mapping.
	Params map[string]any
	// Inputs are the outputs of every upstream node, in connection order.
	Inputs []Artifact
}

// Executor runs one node execution path.
type Executor interface {
	Execute(ctx context.Context, req Request) ([]Artifact, error)
}

// RemoteExecutor is an Executor that may be disabled (no auth token).
type RemoteExecutor interface {
	Executor
	// Enabled reports whether remote execution is possible at all.
	Enabled() bool
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req Request) ([]Artifact, error)

func (f ExecutorFunc) Execute(ctx context.Context, req Request) ([]Artifact, error) {
	return f(ctx, req)
}

// RemoteAdapter bridges the remote client into the executor interface.
type RemoteAdapter struct {
	// Client is the remote service client, nil when remote is disabled.
	Client *remote.Client
}

// Enabled reports whether a usable client with a token is present.
func (a *RemoteAdapter) Enabled() bool {
	return a.Client != nil && a.Client.Enabled()
}

// Execute submits every input artifact to the remote service and maps the
// response back onto an artifact. The first input rides in the primary
// payload field; when a node has several inputs (separated stems, layered
// tracks) all of them travel as named parts so nothing past the first is
// dropped.
func (a *RemoteAdapter) Execute(ctx context.Context, req Request) ([]Artifact, error) {
	var payload []byte
	if len(req.Inputs) > 0 {
		payload = req.Inputs[0].Data
	}
	var parts []remote.Part
	if len(req.Inputs) > 1 {
		parts = make([]remote.Part, 0, len(req.Inputs))
		for _, in := range req.Inputs {
			parts = append(parts, remote.Part{Name: in.Name, Data: in.Data})
		}
	}

	resp, err := a.Client.Submit(ctx, remote.Request{
		Operation: req.Operation,
		Params:    req.Params,
		Payload:   payload,
		Parts:     parts,
	})
	if err != nil {
		return nil, err
	}
	return []Artifact{{
		NodeID: req.NodeID,
		Data:   resp.Payload,
		Meta:   resp.Meta,
	}}, nil
}
