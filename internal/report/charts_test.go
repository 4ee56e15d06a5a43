package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbouqdir/jobtrack/internal/track"
)

func TestWriteCharts(t *testing.T) {
	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	records := []track.Record{
		{Company: "Acme", Status: track.StatusApplied, Received: base},
		{Company: "Acme", Status: track.StatusRejected, Received: base.AddDate(0, 0, 7)},
		{Company: "Globex", Status: track.StatusInterview, Received: base.AddDate(0, 1, 0)},
		{Company: "Initech", Status: track.StatusApplied, Received: base.AddDate(0, 1, 3)},
	}
	report := track.Aggregate(records)

	dir := t.TempDir()
	require.NoError(t, WriteCharts(report, dir, 10))

	for _, name := range []string{StatusChartFile, TimelineChartFile, CompaniesChartFile, HeatmapChartFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestWriteChartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCharts(track.Aggregate(nil), dir, 10))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
