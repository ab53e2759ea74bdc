package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/go-sod/kdtree/internal/config"
	"github.com/go-sod/kdtree/internal/console"
	"github.com/go-sod/kdtree/internal/logging"
	"github.com/go-sod/kdtree/internal/metric"
	"github.com/go-sod/kdtree/internal/srvenv"
)

type ConsoleConfigProvider interface {
	TreeDimensions() int
}

type MetricConfigProvider interface {
	MetricConfig() *metric.Config
}

var (
	_ ConsoleConfigProvider = (*config.Config)(nil)
	_ MetricConfigProvider  = (*config.Config)(nil)
)

func Setup(ctx context.Context, cfg *config.Config) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var serverEnvOpts []srvenv.Option

	logger.Info("Configuring console")
	serverEnvOpts = append(serverEnvOpts, srvenv.WithConsole(ProvideConsoleFor(cfg)))

	if metricCfg := cfg.MetricConfig(); metricCfg.Enabled() {
		logger.Infof("Configuring metrics on %s", metricCfg.Addr)
		if err := metric.Register(); err != nil {
			return nil, fmt.Errorf("unable register metric views: %w", err)
		}
		exporter, err := metric.NewExporter(metricCfg)
		if err != nil {
			return nil, fmt.Errorf("unable create metric exporter: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithMetrics(metricCfg.Addr, exporter))
	}

	return srvenv.New(serverEnvOpts...), nil
}

func ProvideConsoleFor(provider ConsoleConfigProvider) console.ProvideFn {
	dimensions := provider.TreeDimensions()
	return func(in io.Reader, out io.Writer) (*console.App, error) {
		return console.New(
			in,
			out,
			console.WithDimensions(dimensions),
			console.WithSession(uuid.New()),
		)
	}
}
