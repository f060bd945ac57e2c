package audit

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/harvest"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWriteReportCleanAnalysis(t *testing.T) {
	t.Parallel()

	analysis := Analyze([]harvest.Record{
		{ID: "1", URL: "https://site.test/p/a/1", Title: "Driver"},
	}, 2)

	path := t.TempDir() + "/report.csv"
	require.NoError(t, WriteReport(path, analysis, zapNop()))

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	require.Equal(t, "Type,Value,Row_Positions,Count", lines[0])
}
