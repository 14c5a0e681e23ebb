// Package client is the embedding surface: it assembles the registry,
// prober, executors and dispatcher from configuration and exposes pipeline
// and one-shot operations.
package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/epsilon-records/audiokit/audio"
	"github.com/epsilon-records/audiokit/capability"
	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/dispatch"
	"github.com/epsilon-records/audiokit/graph"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/node"
	"github.com/epsilon-records/audiokit/observability"
	"github.com/epsilon-records/audiokit/remote"
)

// AudioKit is the assembled toolkit.
type AudioKit struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *node.Registry
	remote   *remote.Client
	local    dispatch.Executor
	metrics  *observability.Metrics
}

// New assembles an AudioKit from configuration. The built-in node catalog
// is registered; remote execution is enabled only when the auth token
// environment variable is present.
func New(cfg *config.Config, log *logger.Logger) *AudioKit {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	registry := node.NewRegistry(log)
	audio.Register(registry)

	rc, _ := remote.NewFromEnv(cfg.Remote, log)

	// Instruments bind to the global meter provider, which stays a no-op
	// until OTLP export is initialized.
	metrics, err := observability.NewMetrics(observability.Meter("audiokit"))
	if err != nil {
		log.Warn("metric instruments unavailable", logger.Fields(logger.FieldError, err.Error()))
		metrics = nil
	}

	return &AudioKit{
		cfg:      cfg,
		log:      log,
		registry: registry,
		remote:   rc,
		local:    audio.NewLocalRunner(registry, cfg.Local, log),
		metrics:  metrics,
	}
}

// Registry exposes the node catalog (e.g. for listing node types).
func (ak *AudioKit) Registry() *node.Registry {
	return ak.registry
}

// RemoteEnabled reports whether the remote path is usable.
func (ak *AudioKit) RemoteEnabled() bool {
	return ak.remote != nil && ak.remote.Enabled()
}

// LoadPipeline reads and validates a pipeline document.
func (ak *AudioKit) LoadPipeline(path string, strict bool) (*graph.Spec, error) {
	return graph.NewLoader(ak.registry, strict, ak.log).Load(path)
}

// ValidatePipeline validates a pipeline document without executing it.
func (ak *AudioKit) ValidatePipeline(path string, strict bool) error {
	_, err := ak.LoadPipeline(path, strict)
	return err
}

// ParsePipeline validates an in-memory pipeline document.
func (ak *AudioKit) ParsePipeline(data []byte, strict bool) (*graph.Spec, error) {
	return graph.NewLoader(ak.registry, strict, ak.log).Parse(data)
}

// StorePipeline validates a pipeline document and stores its normalized
// form under the configured pipelines directory. Returns the stored path.
func (ak *AudioKit) StorePipeline(path string, strict bool) (string, error) {
	spec, err := ak.LoadPipeline(path, strict)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(ak.cfg.PipelinesDir, 0o755); err != nil {
		return "", fmt.Errorf("create pipelines dir: %w", err)
	}

	name := spec.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	dst := filepath.Join(ak.cfg.PipelinesDir, name+".yaml")

	data, err := graph.Marshal(spec)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("store pipeline: %w", err)
	}
	return dst, nil
}

// RunPipeline executes a validated pipeline and returns the run report.
func (ak *AudioKit) RunPipeline(ctx context.Context, spec *graph.Spec) (*dispatch.Report, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrPipeline, spec.Name)

	report, err := ak.dispatcher().Run(ctx, spec)
	if err == nil && ak.metrics != nil {
		status := "ok"
		if !report.OK() {
			status = "error"
		}
		ak.metrics.RecordRun(ctx, spec.Name, status, report.Duration)
	}
	return report, err
}

// RunPipelineFile loads, validates and executes a pipeline document.
func (ak *AudioKit) RunPipelineFile(ctx context.Context, path string, strict bool) (*dispatch.Report, error) {
	spec, err := ak.LoadPipeline(path, strict)
	if err != nil {
		return nil, err
	}
	return ak.RunPipeline(ctx, spec)
}

// dispatcher builds a fresh dispatcher per run so probe verdicts reflect
// the environment at run start.
func (ak *AudioKit) dispatcher() *dispatch.Dispatcher {
	detector := &capability.HostDetector{
		Registry:   ak.registry,
		WeightsDir: ak.cfg.Local.WeightsDir,
		Binaries:   ak.cfg.Local.Binaries,
	}
	prober := capability.NewProber(detector, ak.registry, ak.log)
	return dispatch.NewDispatcher(
		ak.registry,
		prober,
		ak.localExecutor(),
		ak.remoteExecutor(),
		dispatch.PolicyFromConfig(ak.cfg.Dispatch),
		ak.log,
	)
}

// localExecutor layers logging, metrics and tracing over the local runner.
// Metrics and spans hit no-op providers until OTLP export is enabled.
func (ak *AudioKit) localExecutor() dispatch.Executor {
	exec := dispatch.WithLogging(ak.local, ak.log)
	if ak.metrics != nil {
		exec = dispatch.WithMetrics(exec, ak.metrics, dispatch.LocationLocal)
	}
	return dispatch.WithTracing(exec, observability.SpanNodeExecute)
}

func (ak *AudioKit) remoteExecutor() dispatch.RemoteExecutor {
	exec := dispatch.RemoteExecutor(&dispatch.RemoteAdapter{Client: ak.remote})
	exec = dispatch.DecorateRemote(exec, func(e dispatch.Executor) dispatch.Executor {
		return dispatch.WithLogging(e, ak.log)
	})
	if ak.metrics != nil {
		exec = dispatch.DecorateRemote(exec, func(e dispatch.Executor) dispatch.Executor {
			return dispatch.WithMetrics(e, ak.metrics, dispatch.LocationRemote)
		})
	}
	return dispatch.DecorateRemote(exec, func(e dispatch.Executor) dispatch.Executor {
		return dispatch.WithTracing(e, observability.SpanRemoteCall)
	})
}
