package cmd

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeMetrics(t *testing.T) {
	t.Parallel()

	addr, stop, err := serveMetrics("127.0.0.1:0", zap.NewNop())
	require.NoError(t, err)
	defer stop()

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// The harvest counters register at init, so they are visible even with
	// zero observations.
	require.Contains(t, string(body), "harvest_records_appended_total")
	require.Contains(t, string(body), "harvest_listing_pages_total")
}

func TestServeMetricsBadAddress(t *testing.T) {
	t.Parallel()

	_, _, err := serveMetrics("127.0.0.1:-1", zap.NewNop())
	require.Error(t, err)
}
