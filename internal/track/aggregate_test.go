package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rec(company string, status Status, received time.Time) Record {
	return Record{Company: company, Role: UnknownField, Status: status, Received: received}
}

func TestAggregateCounts(t *testing.T) {
	base := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC) // a Wednesday

	records := []Record{
		rec("Acme", StatusApplied, base),
		rec("Acme", StatusRejected, base.AddDate(0, 0, 1)),
		rec("Globex", StatusInterview, base.AddDate(0, 0, 7)),
		rec("Initech", StatusOther, base.AddDate(0, 1, 0)),
	}

	report := Aggregate(records)

	assert.Equal(t, 4, report.Total)

	// Sum of per-status counts equals the number of input records.
	sum := 0
	for _, count := range report.ByStatus {
		sum += count
	}
	assert.Equal(t, len(records), sum)

	assert.Equal(t, base, report.From)
	assert.Equal(t, base.AddDate(0, 1, 0), report.To)
	assert.Equal(t, []string{"2026-03", "2026-04"}, report.Months)
	assert.Equal(t, 1, report.ByMonthStatus["2026-04"][StatusOther])
}

func TestAggregateRates(t *testing.T) {
	base := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	var records []Record
	for i := 0; i < 3; i++ {
		records = append(records, rec("A", StatusRejected, base))
	}
	for i := 0; i < 2; i++ {
		records = append(records, rec("B", StatusInterview, base))
	}
	for i := 0; i < 5; i++ {
		records = append(records, rec("C", StatusApplied, base))
	}

	report := Aggregate(records)

	assert.Equal(t, 10, report.Total)
	assert.True(t, report.ResponseRate.Valid)
	assert.InDelta(t, 0.5, report.ResponseRate.Value, 1e-9)
	assert.InDelta(t, 0.2, report.InterviewRate.Value, 1e-9)
	assert.InDelta(t, 0.3, report.RejectionRate.Value, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)

	assert.Equal(t, 0, report.Total)
	assert.False(t, report.ResponseRate.Valid)
	assert.False(t, report.InterviewRate.Valid)
	assert.False(t, report.RejectionRate.Valid)
	assert.Empty(t, report.ByWeek)
	assert.Empty(t, report.ByCompany)
}

func TestAggregateWeekBuckets(t *testing.T) {
	// Wed 2026-03-04 and Sun 2026-03-08 share the ISO week starting
	// Mon 2026-03-02; Mon 2026-03-09 opens the next one.
	records := []Record{
		rec("A", StatusApplied, time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)),
		rec("A", StatusApplied, time.Date(2026, time.March, 8, 23, 0, 0, 0, time.UTC)),
		rec("A", StatusApplied, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)),
	}

	report := Aggregate(records)

	assert.Equal(t, []Bucket{
		{Label: "2026-03-02", Count: 2},
		{Label: "2026-03-09", Count: 1},
	}, report.ByWeek)
}

func TestAggregateCompanyGrouping(t *testing.T) {
	base := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)

	records := []Record{
		rec("Acme", StatusApplied, base),
		rec("ACME", StatusRejected, base),
		rec("acme", StatusApplied, base),
		rec("Globex", StatusApplied, base),
	}

	report := Aggregate(records)

	assert.Equal(t, []CompanyCount{
		{Company: "Acme", Count: 3},
		{Company: "Globex", Count: 1},
	}, report.ByCompany)

	assert.Equal(t, report.ByCompany[:1], report.TopCompanies(1))
	// Requesting more than available returns everything.
	assert.Len(t, report.TopCompanies(10), 2)
}

func TestAggregateRoleGrouping(t *testing.T) {
	base := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)

	records := []Record{
		{Company: "Acme", Role: "Software Engineer", Status: StatusApplied, Received: base},
		{Company: "Globex", Role: "software engineer", Status: StatusRejected, Received: base},
		{Company: "Initech", Role: "Data Scientist", Status: StatusApplied, Received: base},
		{Company: "Hooli", Role: UnknownField, Status: StatusApplied, Received: base},
	}

	report := Aggregate(records)

	assert.Equal(t, []RoleCount{
		{Role: "Software Engineer", Count: 2},
		{Role: "Data Scientist", Count: 1},
	}, report.ByRole, "unknown roles carry no signal and are excluded")

	assert.Equal(t, report.ByRole[:1], report.TopRoles(1))
	assert.Len(t, report.TopRoles(10), 2)
}

func TestAggregateDeterministic(t *testing.T) {
	base := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	records := []Record{
		rec("Acme", StatusApplied, base),
		rec("Globex", StatusRejected, base.AddDate(0, 0, 3)),
		rec("Initech", StatusInterview, base.AddDate(0, 0, 10)),
	}
	reversed := []Record{records[2], records[1], records[0]}

	a := Aggregate(records)
	b := Aggregate(reversed)

	assert.Equal(t, a.ByStatus, b.ByStatus)
	assert.Equal(t, a.ByWeek, b.ByWeek)
	assert.Equal(t, a.ByCompany, b.ByCompany)
	assert.Equal(t, a.ResponseRate, b.ResponseRate)
}
