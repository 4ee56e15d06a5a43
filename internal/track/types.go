// Package track contains the classification and aggregation core of
// jobtrack: it turns raw Gmail messages into application records and
// derives the aggregate report the exporters render.
//
// Everything in this package is pure and synchronous. Fetching, caching
// and rendering live in their own packages; track never performs I/O.
package track

import "time"

// Status is the classification outcome for a message.
type Status string

const (
	StatusApplied    Status = "Applied"
	StatusRejected   Status = "Rejected"
	StatusInterview  Status = "Interview"
	StatusAssessment Status = "Assessment"
	StatusOther      Status = "Other"
)

// Statuses lists all valid statuses in classification priority order.
// A message matching keyword groups of several statuses is assigned the
// first one in this order.
var Statuses = []Status{
	StatusRejected,
	StatusAssessment,
	StatusInterview,
	StatusApplied,
	StatusOther,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// RawMessage is a fetched email as the pipeline consumes it. Fields may
// be empty when the message lacked the corresponding header or part;
// downstream stages treat empty fields as non-matching rather than
// failing.
type RawMessage struct {
	ID       string
	From     string
	Subject  string
	Body     string
	Received time.Time
}

// UnknownField is the placeholder for company or role names the
// extractor could not derive.
const UnknownField = "Unknown"

// Record is one tracked application event: a message that survived the
// sender filter, classified and enriched with best-effort company/role
// extraction. Exactly one Record exists per surviving RawMessage.
type Record struct {
	Company   string
	Role      string
	Status    Status
	Received  time.Time
	MessageID string
}
