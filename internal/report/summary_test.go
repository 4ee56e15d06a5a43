package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kbouqdir/jobtrack/internal/track"
)

func TestWriteSummary(t *testing.T) {
	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	records := []track.Record{
		{Company: "Acme", Role: "Software Engineer", Status: track.StatusApplied, Received: base},
		{Company: "Acme", Role: "Software Engineer", Status: track.StatusRejected, Received: base.AddDate(0, 0, 3)},
		{Company: "Globex", Role: track.UnknownField, Status: track.StatusInterview, Received: base.AddDate(0, 0, 10)},
		{Company: "Initech", Role: "Data Scientist", Status: track.StatusApplied, Received: base.AddDate(0, 0, 14)},
	}
	report := track.Aggregate(records)

	var sb strings.Builder
	WriteSummary(&sb, report, 5)
	out := sb.String()

	assert.Contains(t, out, "Date range: 2026-03-02 to 2026-03-16")
	assert.Contains(t, out, "Total applications: 4")
	assert.Contains(t, out, "Applied")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Top roles:")
	assert.Contains(t, out, "Software Engineer")
	assert.Contains(t, out, "Data Scientist")
	assert.NotContains(t, out, track.UnknownField, "unextracted roles are not listed")
	assert.Contains(t, out, "Response rate:  50.0%")
	assert.Contains(t, out, "Interview rate: 25.0%")
	assert.NotContains(t, out, "Assessment", "statuses with no records are omitted")
}

func TestWriteSummaryEmpty(t *testing.T) {
	var sb strings.Builder
	WriteSummary(&sb, track.Aggregate(nil), 5)

	assert.Contains(t, sb.String(), "No applications found.")
	assert.NotContains(t, sb.String(), "Key metrics")
}
