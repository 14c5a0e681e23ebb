package dispatch

import (
	"time"

	"github.com/epsilon-records/audiokit/config"
)

// Policy controls where nodes execute and how failures cascade.
type Policy struct {
	// AllowLocal permits local execution of locally-available types.
	AllowLocal bool
	// AllowRemote permits delegating to the remote service.
	AllowRemote bool
	// FallbackToRemote enables the single remote hop after a local
	// failure. Never more than one hop; remote failures are terminal.
	FallbackToRemote bool
	// NodeTimeout bounds each execution path. Zero means no timeout.
	NodeTimeout time.Duration
	// MaxWorkers limits concurrent node executions. Zero or negative
	// removes the limit; config maps -1 here for that.
	MaxWorkers int
}

// PolicyFromConfig maps the dispatch config section onto a Policy.
func PolicyFromConfig(cfg config.DispatchConfig) Policy {
	return Policy{
		AllowLocal:       cfg.AllowLocal,
		AllowRemote:      cfg.AllowRemote,
		FallbackToRemote: cfg.FallbackToRemote,
		NodeTimeout:      cfg.NodeTimeout,
		MaxWorkers:       cfg.MaxWorkers,
	}
}
