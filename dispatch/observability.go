package dispatch

import (
	"context"
	"time"

	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/observability"
)

// WithTracing wraps an Executor with OpenTelemetry span creation.
// Each execution creates a span named "{prefix}.{nodeID}".
func WithTracing(exec Executor, prefix string) Executor {
	return ExecutorFunc(func(ctx context.Context, req Request) ([]Artifact, error) {
		ctx, span := observability.StartSpan(ctx, prefix+"."+req.NodeID)
		defer span.End()

		observability.SetSpanAttribute(ctx, observability.AttrNodeID, req.NodeID)
		observability.SetSpanAttribute(ctx, observability.AttrNodeType, req.Type)

		outputs, err := exec.Execute(ctx, req)
		if err != nil {
			observability.SetSpanError(ctx, err)
			observability.SetSpanAttribute(ctx, observability.AttrErrorKind, string(errors.KindOf(err)))
		}
		return outputs, err
	})
}

// WithMetrics wraps an Executor with metric recording for the given
// execution location.
func WithMetrics(exec Executor, metrics *observability.Metrics, location string) Executor {
	return ExecutorFunc(func(ctx context.Context, req Request) ([]Artifact, error) {
		metrics.RecordNodeStart(ctx)
		start := time.Now()
		outputs, err := exec.Execute(ctx, req)
		duration := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, string(errors.KindOf(err)), req.Type)
		}
		metrics.RecordNode(ctx, req.Type, location, status, duration)
		return outputs, err
	})
}

// DecorateRemote applies an executor decorator to a RemoteExecutor while
// preserving its Enabled signal.
func DecorateRemote(remote RemoteExecutor, decorate func(Executor) Executor) RemoteExecutor {
	return &decoratedRemote{Executor: decorate(remote), enabled: remote.Enabled}
}

type decoratedRemote struct {
	Executor
	enabled func() bool
}

func (d *decoratedRemote) Enabled() bool { return d.enabled() }

// WithLogging wraps an Executor with per-execution logging.
func WithLogging(exec Executor, log *logger.Logger) Executor {
	return ExecutorFunc(func(ctx context.Context, req Request) ([]Artifact, error) {
		start := time.Now()
		outputs, err := exec.Execute(ctx, req)
		duration := time.Since(start)

		fields := logger.Fields(
			logger.FieldNode, req.NodeID,
			logger.FieldNodeType, req.Type,
			logger.FieldDuration, duration.String(),
		)
		if err != nil {
			fields[logger.FieldError] = err.Error()
			log.Error("executor failed", fields)
		} else {
			log.Debug("executor completed", fields)
		}
		return outputs, err
	})
}
