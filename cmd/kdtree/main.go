package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-sod/kdtree/internal/buildinfo"
	"github.com/go-sod/kdtree/internal/config"
	"github.com/go-sod/kdtree/internal/logging"
	"github.com/go-sod/kdtree/internal/server"
	"github.com/go-sod/kdtree/internal/setup"
	"github.com/go-sod/kdtree/internal/shutdown"
)

type options struct {
	configFile  string
	dimensions  int
	logLevel    string
	metricsAddr string
}

func main() {
	ctx, done := shutdown.New()
	defer done()

	if err := newRootCommand(ctx, os.Stdin, os.Stdout).Execute(); err != nil {
		logging.FromContext(ctx).Fatal(err)
	}
}

func newRootCommand(ctx context.Context, in io.ReadCloser, out io.Writer) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "kdtree",
		Short:         "Interactive k-d tree console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("dimensions") {
				cfg.Dimensions = opts.dimensions
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if flags.Changed("metrics-addr") {
				cfg.Metric.Addr = opts.metricsAddr
			}
			return run(ctx, cfg, in, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "path to a TOML config file")
	flags.IntVar(&opts.dimensions, "dimensions", 0, "tree dimensions, 2 or 3; asked interactively when 0")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, in io.ReadCloser, out io.Writer) error {
	logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Development)
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	_, _ = fmt.Fprint(out, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		out,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	env, err := setup.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	app, err := env.ProvideConsole()(in, out)
	if err != nil {
		return fmt.Errorf("console provider function error: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// The console returns on cancellation by itself. Closing the input also
	// releases its scanning goroutine when the descriptor supports it.
	go func() {
		<-ctx.Done()
		_ = in.Close()
	}()

	g.Go(func() error {
		defer cancel()
		if err := app.Run(ctx); err != nil {
			return fmt.Errorf("console.Run: %w", err)
		}
		return nil
	})

	if handler := env.MetricsHandler(); handler != nil {
		srv, err := server.New(env.MetricsAddr())
		if err != nil {
			return fmt.Errorf("server.New: %w", err)
		}
		logger.Infof("serving metrics on %s", srv.Addr())
		g.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", handler)
			mux.Handle("/health", server.HandleHealth(ctx))
			return srv.ServeHTTPHandler(ctx, mux)
		})
	}

	return g.Wait()
}
