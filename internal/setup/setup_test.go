package setup

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sod/kdtree/internal/config"
	"github.com/go-sod/kdtree/internal/metric"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantErr     bool
		withMetrics bool
	}{
		{name: "console_only", cfg: config.Config{Dimensions: 2}},
		{name: "ask_dimensions", cfg: config.Config{}},
		{name: "invalid_dimensions", cfg: config.Config{Dimensions: 5}, wantErr: true},
		{
			name:        "metrics",
			cfg:         config.Config{Dimensions: 3, Metric: metric.Config{Addr: "127.0.0.1:0", Namespace: "kdtree"}},
			withMetrics: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			env, err := Setup(ctx, &test.cfg)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer env.Close(ctx)

			require.NotNil(t, env.ProvideConsole())
			if !test.withMetrics {
				require.Nil(t, env.MetricsHandler())
				return
			}
			require.NotNil(t, env.MetricsHandler())
			require.Equal(t, test.cfg.Metric.Addr, env.MetricsAddr())
		})
	}
}

func TestMetricsAfterConsoleSession(t *testing.T) {
	cfg := config.Config{Dimensions: 2, Metric: metric.Config{Addr: "127.0.0.1:0", Namespace: "kdtree"}}
	ctx := context.Background()
	env, err := Setup(ctx, &cfg)
	require.NoError(t, err)
	defer env.Close(ctx)

	app, err := env.ProvideConsole()(strings.NewReader("2 8 5 2 3 6 1 3 6 0"), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, app.Run(ctx))

	rec := httptest.NewRecorder()
	env.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "kdtree_operations_total")
}

func TestProvideConsoleFor(t *testing.T) {
	t.Parallel()
	provide := ProvideConsoleFor(config.Config{Dimensions: 3})
	app, err := provide(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 3, app.Tree().Dimensions())
}
