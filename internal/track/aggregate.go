package track

import (
	"sort"
	"strings"
	"time"
)

// Rate is a fraction that may be undefined. Rates over an empty record
// set are not zero, they simply do not exist; Valid distinguishes the
// two so rendering code never divides by zero or prints NaN.
type Rate struct {
	Value float64
	Valid bool
}

// Bucket is one time bucket with its record count.
type Bucket struct {
	Label string
	Count int
}

// CompanyCount is one company with its record count.
type CompanyCount struct {
	Company string
	Count   int
}

// RoleCount is one role with its record count.
type RoleCount struct {
	Role  string
	Count int
}

// Report is the derived, read-only view over a set of Records. It is
// recomputed from scratch each run.
type Report struct {
	Total    int
	From, To time.Time

	ByStatus map[Status]int
	// ByWeek holds ISO-week buckets (label: start date of the week),
	// sorted chronologically, covering only weeks with records.
	ByWeek []Bucket
	// Months holds the "YYYY-MM" labels present, sorted; ByMonthStatus
	// is keyed by those labels.
	Months        []string
	ByMonthStatus map[string]map[Status]int
	// ByCompany is sorted by descending count, ties broken by name.
	// Grouping is case-insensitive; the first spelling seen wins.
	ByCompany []CompanyCount
	// ByRole is sorted and grouped like ByCompany. Records whose role
	// could not be extracted are left out; an "Unknown" bar carries no
	// signal.
	ByRole []RoleCount

	ResponseRate  Rate
	InterviewRate Rate
	RejectionRate Rate
}

// Aggregate computes the report in a single pass over records. It is
// pure and deterministic: record order only influences which spelling
// of a company name is displayed.
func Aggregate(records []Record) Report {
	r := Report{
		ByStatus:      make(map[Status]int),
		ByMonthStatus: make(map[string]map[Status]int),
	}

	weeks := make(map[time.Time]int)
	companies := make(map[string]int)
	companyNames := make(map[string]string)
	roles := make(map[string]int)
	roleNames := make(map[string]string)

	for _, rec := range records {
		r.Total++
		r.ByStatus[rec.Status]++

		if r.From.IsZero() || rec.Received.Before(r.From) {
			r.From = rec.Received
		}
		if rec.Received.After(r.To) {
			r.To = rec.Received
		}

		weeks[weekStart(rec.Received)]++

		month := rec.Received.Format("2006-01")
		if r.ByMonthStatus[month] == nil {
			r.ByMonthStatus[month] = make(map[Status]int)
		}
		r.ByMonthStatus[month][rec.Status]++

		key := strings.ToLower(rec.Company)
		companies[key]++
		if _, seen := companyNames[key]; !seen {
			companyNames[key] = rec.Company
		}

		if rec.Role != UnknownField {
			key := strings.ToLower(rec.Role)
			roles[key]++
			if _, seen := roleNames[key]; !seen {
				roleNames[key] = rec.Role
			}
		}
	}

	weekStarts := make([]time.Time, 0, len(weeks))
	for w := range weeks {
		weekStarts = append(weekStarts, w)
	}
	sort.Slice(weekStarts, func(i, j int) bool { return weekStarts[i].Before(weekStarts[j]) })
	for _, w := range weekStarts {
		r.ByWeek = append(r.ByWeek, Bucket{Label: w.Format("2006-01-02"), Count: weeks[w]})
	}

	for month := range r.ByMonthStatus {
		r.Months = append(r.Months, month)
	}
	sort.Strings(r.Months)

	for key, count := range companies {
		r.ByCompany = append(r.ByCompany, CompanyCount{Company: companyNames[key], Count: count})
	}
	sort.Slice(r.ByCompany, func(i, j int) bool {
		if r.ByCompany[i].Count != r.ByCompany[j].Count {
			return r.ByCompany[i].Count > r.ByCompany[j].Count
		}
		return r.ByCompany[i].Company < r.ByCompany[j].Company
	})

	for key, count := range roles {
		r.ByRole = append(r.ByRole, RoleCount{Role: roleNames[key], Count: count})
	}
	sort.Slice(r.ByRole, func(i, j int) bool {
		if r.ByRole[i].Count != r.ByRole[j].Count {
			return r.ByRole[i].Count > r.ByRole[j].Count
		}
		return r.ByRole[i].Role < r.ByRole[j].Role
	})

	if r.Total > 0 {
		total := float64(r.Total)
		r.ResponseRate = Rate{Value: float64(r.ByStatus[StatusRejected]+r.ByStatus[StatusInterview]) / total, Valid: true}
		r.InterviewRate = Rate{Value: float64(r.ByStatus[StatusInterview]) / total, Valid: true}
		r.RejectionRate = Rate{Value: float64(r.ByStatus[StatusRejected]) / total, Valid: true}
	}

	return r
}

// TopCompanies returns the n most frequent companies.
func (r Report) TopCompanies(n int) []CompanyCount {
	if n > len(r.ByCompany) {
		n = len(r.ByCompany)
	}
	return r.ByCompany[:n]
}

// TopRoles returns the n most frequent extracted roles.
func (r Report) TopRoles(n int) []RoleCount {
	if n > len(r.ByRole) {
		n = len(r.ByRole)
	}
	return r.ByRole[:n]
}

// weekStart truncates t to the Monday of its ISO week, date precision,
// in t's location.
func weekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
