package report

import (
	"fmt"
	"io"

	"github.com/kbouqdir/jobtrack/internal/track"
)

// summaryTopRoles bounds the roles section of the console report.
const summaryTopRoles = 5

// WriteSummary prints the run report to w: date range, totals, status
// breakdown with percentages, top companies, top roles and the
// conversion rates.
func WriteSummary(w io.Writer, r track.Report, topN int) {
	fmt.Fprintln(w, "JOB APPLICATION ANALYSIS REPORT")
	fmt.Fprintln(w, "===============================")

	if r.Total == 0 {
		fmt.Fprintln(w, "No applications found.")
		return
	}

	fmt.Fprintf(w, "Date range: %s to %s\n",
		r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	fmt.Fprintf(w, "Total applications: %d\n\n", r.Total)

	fmt.Fprintln(w, "Status breakdown:")
	for _, status := range track.Statuses {
		count := r.ByStatus[status]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(r.Total) * 100
		fmt.Fprintf(w, "  %-12s %3d (%5.1f%%)\n", status, count, pct)
	}

	top := r.TopCompanies(topN)
	if len(top) > 0 {
		fmt.Fprintln(w, "\nTop companies:")
		for _, c := range top {
			fmt.Fprintf(w, "  %-30s %2d\n", c.Company, c.Count)
		}
	}

	roles := r.TopRoles(summaryTopRoles)
	if len(roles) > 0 {
		fmt.Fprintln(w, "\nTop roles:")
		for _, rc := range roles {
			fmt.Fprintf(w, "  %-30s %2d\n", rc.Role, rc.Count)
		}
	}

	fmt.Fprintln(w, "\nKey metrics:")
	fmt.Fprintf(w, "  Response rate:  %s\n", formatRate(r.ResponseRate))
	fmt.Fprintf(w, "  Interview rate: %s\n", formatRate(r.InterviewRate))
	fmt.Fprintf(w, "  Rejection rate: %s\n", formatRate(r.RejectionRate))
}

func formatRate(rate track.Rate) string {
	if !rate.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", rate.Value*100)
}
