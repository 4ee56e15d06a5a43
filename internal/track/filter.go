package track

import (
	"log/slog"
	"strings"

	"github.com/kbouqdir/jobtrack/internal/logging"
)

// SenderFilter drops messages that come from bulk job-alert senders or
// carry newsletter-style subjects. Matching is case-insensitive
// substring over the sender and subject combined, so entries may be
// full addresses, bare domains or subject phrases.
type SenderFilter struct {
	patterns []string
	logger   *slog.Logger
}

// DefaultBulkPatterns covers the common job boards and digest phrasings.
// Config may replace or extend the list without code changes.
var DefaultBulkPatterns = []string{
	"linkedin.com", "indeed.com", "glassdoor.com", "monster.com",
	"jobrapido", "jooble", "jobtome", "talent.com", "simplyhired",
	"ziprecruiter", "newsletter", "job alert", "new jobs",
	"recommended for you", "jobs matching", "daily digest",
}

// NewSenderFilter creates a filter for the given patterns. Patterns are
// normalized to lower case; empty entries are ignored.
func NewSenderFilter(patterns []string, logger *slog.Logger) *SenderFilter {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return &SenderFilter{patterns: normalized, logger: logger}
}

// Keep reports whether the message should enter the pipeline. Messages
// with missing sender and subject are kept; a genuine application must
// never be hidden by an overeager exclusion.
func (f *SenderFilter) Keep(m RawMessage) bool {
	combined := strings.ToLower(m.From + " " + m.Subject)
	for _, p := range f.patterns {
		if strings.Contains(combined, p) {
			if f.logger != nil {
				f.logger.Debug("excluding bulk sender",
					logging.Domain(m.From),
					logging.Sender(m.From),
					slog.String("pattern", p))
			}
			return false
		}
	}
	return true
}

// Apply returns the messages that pass the filter, preserving order.
// Applying it to its own output changes nothing.
func (f *SenderFilter) Apply(msgs []RawMessage) []RawMessage {
	kept := make([]RawMessage, 0, len(msgs))
	for _, m := range msgs {
		if f.Keep(m) {
			kept = append(kept, m)
		}
	}
	return kept
}
