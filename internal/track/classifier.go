package track

import (
	"fmt"
	"strings"
)

// classifyBodyLimit bounds how much of the body participates in keyword
// matching. Signature blocks and quoted threads below that point add
// noise, not signal.
const classifyBodyLimit = 500

// DefaultKeywords maps each status to its phrase group. Phrases are
// matched as case-insensitive substrings of the normalized subject+body
// text.
var DefaultKeywords = map[Status][]string{
	StatusRejected: {
		"not selected", "unfortunately", "other candidates",
		"position filled", "not moving forward", "pursue other",
		"not be considered",
	},
	StatusAssessment: {
		"codesignal", "hackerrank", "coding challenge",
		"assessment", "technical test",
	},
	StatusInterview: {
		"interview", "schedule", "meet with", "phone screen",
		"video call", "would like to speak",
	},
	StatusApplied: {
		"application received", "thank you for applying",
		"confirm your application", "submitted successfully",
	},
}

// Classifier assigns exactly one Status to a message by evaluating
// keyword groups in the fixed priority order of Statuses. Rejection
// phrases win over interview phrases so that "we regret ... the
// interview process is now closed" lands in Rejected, deterministically.
type Classifier struct {
	keywords map[Status][]string
}

// NewClassifier builds a classifier from the given keyword groups,
// validating them up front. Groups for unknown statuses, a group for
// Other (the implicit fallback) and empty groups are configuration
// errors.
func NewClassifier(keywords map[Status][]string) (*Classifier, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	normalized := make(map[Status][]string, len(keywords))
	for status, phrases := range keywords {
		if !status.Valid() {
			return nil, fmt.Errorf("keyword group for unknown status %q", status)
		}
		if status == StatusOther {
			return nil, fmt.Errorf("status %q is the fallback and cannot have keywords", StatusOther)
		}
		if len(phrases) == 0 {
			return nil, fmt.Errorf("empty keyword group for status %q", status)
		}
		group := make([]string, 0, len(phrases))
		for _, p := range phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				return nil, fmt.Errorf("blank phrase in keyword group for status %q", status)
			}
			group = append(group, p)
		}
		normalized[status] = group
	}
	return &Classifier{keywords: normalized}, nil
}

// Classify returns the status for a message. It is total: text that
// matches no group yields StatusOther.
func (c *Classifier) Classify(m RawMessage) Status {
	body := m.Body
	if len(body) > classifyBodyLimit {
		body = body[:classifyBodyLimit]
	}
	text := Normalize(m.Subject + " " + body)

	for _, status := range Statuses {
		for _, phrase := range c.keywords[status] {
			if strings.Contains(text, phrase) {
				return status
			}
		}
	}
	return StatusOther
}

// Normalize lower-cases text and collapses runs of whitespace to single
// spaces so phrase matching is insensitive to line wrapping.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
