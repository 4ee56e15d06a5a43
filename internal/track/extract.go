package track

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	senderDomainRe = regexp.MustCompile(`@([\w-]+)\.(com|io|ai|co)\b`)
	subjectAtRe    = regexp.MustCompile(`(?:^|\s)at\s+([\w][\w ]{1,39}?)(?:\s*[-–|]|$)`)

	roleMarkerRe = regexp.MustCompile(`(?i)(?:for\s+|role:\s*|position:\s*)([\w][\w ]{4,39}?)(?:\s+at\b|\s*[-–|]|$)`)
	roleTitleRe  = regexp.MustCompile(`(?i)(software engineer|data engineer|ml engineer|machine learning|data scientist|backend|frontend|full.stack)`)

	// roleBodyLimit bounds the body prefix scanned for role markers.
	roleBodyLimit = 200
)

// atsRelayTokens are multi-tenant recruiting platforms whose domains say
// nothing about the hiring company. They are stripped from the
// domain-derived name before it is accepted.
var atsRelayTokens = []string{"greenhouse", "lever", "workday", "myworkday"}

var titleCaser = cases.Title(language.English)

// Extractor derives a company (and optionally a role) from a message.
// This is best-effort text heuristics: results may be noisy and both
// fields degrade to UnknownField rather than error.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Company derives the hiring company name. The sender domain is tried
// first; generic or relay-only domains fall back to an "at Company"
// token in the subject line.
func (e *Extractor) Company(m RawMessage) string {
	if match := senderDomainRe.FindStringSubmatch(strings.ToLower(m.From)); match != nil {
		name := match[1]
		for _, token := range atsRelayTokens {
			name = strings.ReplaceAll(name, token, "")
		}
		name = strings.Trim(name, "-")
		if len(name) > 2 && !isGenericMailbox(name) {
			return titleCaser.String(name)
		}
	}

	if match := subjectAtRe.FindStringSubmatch(m.Subject); match != nil {
		if name := strings.TrimSpace(match[1]); name != "" {
			return titleCaser.String(name)
		}
	}

	return UnknownField
}

// Role derives the applied-for role from the subject, then from the
// leading part of the body. Marker phrases are tried before the
// known-title alternation.
func (e *Extractor) Role(m RawMessage) string {
	body := m.Body
	if len(body) > roleBodyLimit {
		body = body[:roleBodyLimit]
	}

	for _, re := range []*regexp.Regexp{roleMarkerRe, roleTitleRe} {
		if match := re.FindStringSubmatch(m.Subject); match != nil {
			return titleCaser.String(strings.TrimSpace(match[1]))
		}
		if match := re.FindStringSubmatch(body); match != nil {
			return titleCaser.String(strings.TrimSpace(match[1]))
		}
	}
	return UnknownField
}

// isGenericMailbox reports whether a domain-derived name is a generic
// mail host rather than a company.
func isGenericMailbox(name string) bool {
	switch name {
	case "gmail", "googlemail", "outlook", "hotmail", "yahoo", "mail",
		"email", "noreply", "no-reply":
		return true
	}
	return false
}
