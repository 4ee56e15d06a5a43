package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"bare address", "recruiting@acme.com", "acme.com"},
		{"display name form", "Acme Careers <recruiting@acme.com>", "acme.com"},
		{"mixed case", "Recruiting@ACME.COM", "acme.com"},
		{"no at sign", "not-an-email", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.email))
		})
	}
}

func TestAnonymizeEmail(t *testing.T) {
	a := AnonymizeEmail("recruiting@acme.com")
	b := AnonymizeEmail("recruiting@acme.com")
	c := AnonymizeEmail("other@acme.com")

	assert.Equal(t, a, b, "same input hashes identically")
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "user:")
	assert.NotContains(t, a, "acme", "raw address must not leak")
	assert.Equal(t, "", AnonymizeEmail(""))
}

func TestSender(t *testing.T) {
	attr := Sender("recruiting@acme.com")

	assert.Equal(t, "sender_hash", attr.Key)
	assert.Equal(t, AnonymizeEmail("recruiting@acme.com"), attr.Value.String())
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:6 chars]", SanitizeToken("secret"))
	assert.NotContains(t, SanitizeToken("ya29.secret-token"), "secret")
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	assert.Equal(t, "", attr.Key)
}

func TestSetup(t *testing.T) {
	assert.NotNil(t, Setup("debug", "json"))
	assert.NotNil(t, Setup("bogus", "bogus"))
}
