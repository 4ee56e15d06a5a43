package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/kbouqdir/jobtrack/internal/track"
)

// HeaderValue extracts a header value from a Gmail message. Header
// names are case-insensitive per RFC 5322.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// ToRawMessage converts an API message to the pipeline representation.
// Missing headers, an absent text part or a zero internal date all
// degrade to empty values; the pipeline substitutes defaults instead of
// failing the run.
func ToRawMessage(m *gmail.Message) track.RawMessage {
	raw := track.RawMessage{
		ID:      m.Id,
		From:    HeaderValue(m, "From"),
		Subject: HeaderValue(m, "Subject"),
		Body:    messageBody(m),
	}
	if m.InternalDate > 0 {
		raw.Received = time.UnixMilli(m.InternalDate)
	}
	return raw
}

// messageBody extracts the decoded text/plain body, checking the main
// payload first and then walking the MIME tree.
func messageBody(m *gmail.Message) string {
	if m.Payload == nil {
		return ""
	}

	if m.Payload.MimeType == "text/plain" && m.Payload.Body != nil && m.Payload.Body.Data != "" {
		return decodeBody(m.Payload.Body.Data)
	}

	var body string
	walkParts(m.Payload, func(part *gmail.MessagePart) {
		if body == "" && part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			body = decodeBody(part.Body.Data)
		}
	})
	return body
}

// walkParts visits every part of the MIME tree in order.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, p := range part.Parts {
		walkParts(p, fn)
	}
}

// decodeBody decodes base64url part data (Gmail uses RFC 4648 base64url
// encoding, with or without padding).
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
