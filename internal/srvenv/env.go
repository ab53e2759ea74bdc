package srvenv

import (
	"context"
	"net/http"

	"github.com/go-sod/kdtree/internal/console"
	"github.com/go-sod/kdtree/internal/metric"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	console        console.ProvideFn
	metricsHandler http.Handler
	metricsAddr    string
}

func (s *SrvEnv) ProvideConsole() console.ProvideFn {
	return s.console
}

// MetricsHandler is nil when metrics are disabled.
func (s *SrvEnv) MetricsHandler() http.Handler {
	return s.metricsHandler
}

func (s *SrvEnv) MetricsAddr() string {
	return s.metricsAddr
}

func WithConsole(fn console.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.console = fn
		return s
	}
}

func WithMetrics(addr string, handler http.Handler) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.metricsAddr = addr
		s.metricsHandler = handler
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.metricsHandler != nil {
		metric.Unregister()
	}
	return nil
}
