package metric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"
)

func TestResultOf(t *testing.T) {
	t.Parallel()
	require.Equal(t, ResultError, ResultOf(true, errors.New("boom")))
	require.Equal(t, ResultFound, ResultOf(true, nil))
	require.Equal(t, ResultNotFound, ResultOf(false, nil))
}

func TestRecord(t *testing.T) {
	require.NoError(t, Register())
	defer Unregister()

	ctx := context.Background()
	Record(ctx, "insert", ResultFound, time.Millisecond, 1)
	Record(ctx, "insert", ResultFound, time.Millisecond, 2)
	Record(ctx, "lookup", ResultNotFound, time.Millisecond, 2)

	rows, err := view.RetrieveData("operations_total")
	require.NoError(t, err)
	var total int64
	for _, row := range rows {
		total += row.Data.(*view.CountData).Value
	}
	require.Equal(t, int64(3), total)

	rows, err = view.RetrieveData("tree_size")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, float64(2), rows[0].Data.(*view.LastValueData).Value)
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()
	require.False(t, Config{}.Enabled())
	require.True(t, Config{Addr: ":9090"}.Enabled())
}
