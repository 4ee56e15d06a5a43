package gmail

import (
	"fmt"
	"time"
)

// Query combines a configured search expression with the lookback
// cutoff. Gmail's after: operator takes a local date in YYYY/MM/DD
// form.
func Query(expr string, since time.Time) string {
	return fmt.Sprintf("after:%s %s", since.Format("2006/01/02"), expr)
}

// Cutoff returns the search window start for a lookback of the given
// number of months, anchored at now.
func Cutoff(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}
