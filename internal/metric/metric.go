// Package metric records tree operations with opencensus and exposes them
// through a prometheus exporter.
package metric

import (
	"context"
	"fmt"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	OperationKey = tag.MustNewKey("operation")
	ResultKey    = tag.MustNewKey("result")

	OperationCount   = stats.Int64("kdtree/operations", "Number of tree operations", stats.UnitDimensionless)
	OperationLatency = stats.Float64("kdtree/operation_latency", "Latency of tree operations", stats.UnitMilliseconds)
	TreeSize         = stats.Int64("kdtree/size", "Number of points stored in the tree", stats.UnitDimensionless)
)

var Views = []*view.View{
	{
		Name:        "operations_total",
		Description: "Number of tree operations by operation and result",
		Measure:     OperationCount,
		TagKeys:     []tag.Key{OperationKey, ResultKey},
		Aggregation: view.Count(),
	},
	{
		Name:        "operation_latency",
		Description: "Latency distribution of tree operations",
		Measure:     OperationLatency,
		TagKeys:     []tag.Key{OperationKey},
		Aggregation: view.Distribution(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100),
	},
	{
		Name:        "tree_size",
		Description: "Number of points stored in the tree",
		Measure:     TreeSize,
		Aggregation: view.LastValue(),
	},
}

func Register() error {
	if err := view.Register(Views...); err != nil {
		return fmt.Errorf("unable to register views: %w", err)
	}
	return nil
}

func Unregister() {
	view.Unregister(Views...)
}

// NewExporter returns the prometheus exporter, it doubles as the /metrics
// http.Handler.
func NewExporter(cfg *Config) (*prometheus.Exporter, error) {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create prometheus exporter: %w", err)
	}
	return pe, nil
}

func Record(ctx context.Context, operation, result string, elapsed time.Duration, size int) {
	_ = stats.RecordWithTags(
		ctx,
		[]tag.Mutator{tag.Upsert(OperationKey, operation), tag.Upsert(ResultKey, result)},
		OperationCount.M(1),
		OperationLatency.M(float64(elapsed)/float64(time.Millisecond)),
		TreeSize.M(int64(size)),
	)
}

// ResultOf maps a lookup style outcome to a result tag value.
func ResultOf(found bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case found:
		return ResultFound
	default:
		return ResultNotFound
	}
}
