package config

import (
	"time"

	"github.com/epsilon-records/audiokit/logger"
)

// TokenEnvVar is the environment variable supplying the remote auth token.
// When unset, remote execution is disabled and the dispatcher treats
// REMOTE_EXEC as unavailable.
const TokenEnvVar = "AUDIOKIT_API_KEY"

// Config is the root audiokit configuration.
type Config struct {
	// Logging configures structured logging output.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	// Remote configures the remote service client.
	Remote RemoteConfig `yaml:"remote" mapstructure:"remote"`
	// Dispatch configures execution policy.
	Dispatch DispatchConfig `yaml:"dispatch" mapstructure:"dispatch"`
	// Local configures local model execution.
	Local LocalConfig `yaml:"local" mapstructure:"local"`
	// Observability configures OpenTelemetry trace and metric export.
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	// PipelinesDir is where `create` stores validated pipeline documents.
	PipelinesDir string `yaml:"pipelines_dir" mapstructure:"pipelines_dir"`
}

// RemoteConfig configures the remote service boundary.
type RemoteConfig struct {
	// BaseURL is the remote service endpoint.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// Timeout bounds a single remote call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DispatchConfig configures local-vs-remote execution policy.
type DispatchConfig struct {
	// AllowLocal permits local execution of node types that are available.
	AllowLocal bool `yaml:"allow_local" mapstructure:"allow_local"`
	// AllowRemote permits forwarding to the remote service. Effective only
	// when an auth token is present.
	AllowRemote bool `yaml:"allow_remote" mapstructure:"allow_remote"`
	// FallbackToRemote enables the single remote hop after a local failure.
	FallbackToRemote bool `yaml:"fallback_to_remote" mapstructure:"fallback_to_remote"`
	// NodeTimeout bounds each node execution path (local or remote).
	NodeTimeout time.Duration `yaml:"node_timeout" mapstructure:"node_timeout"`
	// MaxWorkers limits concurrent node executions per pipeline run.
	// Zero selects the default; -1 removes the limit.
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers" validate:"min=-1"`
}

// LocalConfig configures local model execution.
type LocalConfig struct {
	// WeightsDir is where local model weights are installed.
	WeightsDir string `yaml:"weights_dir" mapstructure:"weights_dir"`
	// WorkDir is where node output artifacts are written.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// Binaries maps node types to the model binary that serves them,
	// overriding the built-in defaults.
	Binaries map[string]string `yaml:"binaries" mapstructure:"binaries"`
}

// ObservabilityConfig configures OTLP export. Disabled by default; node
// execution is still logged either way.
type ObservabilityConfig struct {
	// Enabled turns on trace and metric export.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP collector endpoint, host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure permits plain-HTTP export.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Environment tags exported telemetry.
	Environment string `yaml:"environment" mapstructure:"environment"`
	// SampleRate is the trace sampling ratio.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	// Interval is the metric export period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 60 * time.Second
	}
	if c.Dispatch.NodeTimeout == 0 {
		c.Dispatch.NodeTimeout = 120 * time.Second
	}
	if c.Dispatch.MaxWorkers == 0 {
		c.Dispatch.MaxWorkers = 4
	}
	if c.Local.WorkDir == "" {
		c.Local.WorkDir = "out"
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
		c.Observability.Insecure = true
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.Interval == 0 {
		c.Observability.Interval = 15 * time.Second
	}
	if c.PipelinesDir == "" {
		c.PipelinesDir = "pipelines"
	}
}

// Default returns a configuration with all defaults applied and both
// execution paths allowed (remote still requires a token at run time).
func Default() *Config {
	cfg := &Config{
		Dispatch: DispatchConfig{
			AllowLocal:       true,
			AllowRemote:      true,
			FallbackToRemote: true,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}
