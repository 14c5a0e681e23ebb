package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/epsilon-records/audiokit/client"
	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/observability"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logger.Logger
	kit *client.AudioKit

	otelShutdown []func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "audiokit",
	Short: "Hybrid local/cloud audio processing pipelines",
	Long: `audiokit builds and runs audio processing pipelines.

Pipelines are YAML documents describing a graph of processing nodes.
Each node executes locally when the host can serve it (model weights,
binaries, accelerator, memory) and is dispatched to the remote service
otherwise. Remote execution requires the ` + config.TokenEnvVar + `
environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.NewLoader().Load(config.LoaderConfig{ConfigFile: cfgFile})
		if err != nil {
			return err
		}
		cfg = loaded
		if verbose {
			cfg.Logging.Level = "debug"
		}
		log = logger.New(&cfg.Logging)
		if err := initObservability(cmd.Context()); err != nil {
			return err
		}
		kit = client.New(cfg, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownObservability()
	},
}

// initObservability installs the OTLP trace and metric providers when
// export is enabled. Without it the client's spans and instruments hit
// the global no-op providers.
func initObservability(ctx context.Context) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		Environment: cfg.Observability.Environment,
		Endpoint:    cfg.Observability.Endpoint,
		Insecure:    cfg.Observability.Insecure,
		SampleRate:  cfg.Observability.SampleRate,
	}, log)
	if err != nil {
		return err
	}
	otelShutdown = append(otelShutdown, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
		Environment: cfg.Observability.Environment,
		Endpoint:    cfg.Observability.Endpoint,
		Insecure:    cfg.Observability.Insecure,
		Interval:    cfg.Observability.Interval,
	}, log)
	if err != nil {
		return err
	}
	otelShutdown = append(otelShutdown, mp.Shutdown)
	return nil
}

func shutdownObservability() {
	if len(otelShutdown) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, fn := range otelShutdown {
		if err := fn(ctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}
	otelShutdown = nil
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./audiokit.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
