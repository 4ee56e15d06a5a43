package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCompany(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name string
		msg  RawMessage
		want string
	}{
		{
			name: "from sender domain",
			msg:  RawMessage{From: "Acme Recruiting <recruiting@acme.com>"},
			want: "Acme",
		},
		{
			name: "io domain",
			msg:  RawMessage{From: "careers@globex.io"},
			want: "Globex",
		},
		{
			name: "ATS relay prefix stripped",
			msg:  RawMessage{From: "no-reply@initech-greenhouse.com"},
			want: "Initech",
		},
		{
			name: "pure ATS domain falls back to subject",
			msg:  RawMessage{From: "no-reply@greenhouse.io", Subject: "Your application at Initech - confirmation"},
			want: "Initech",
		},
		{
			name: "generic mailbox falls back to subject",
			msg:  RawMessage{From: "recruiter@gmail.com", Subject: "Interview at Globex Corp | scheduling"},
			want: "Globex Corp",
		},
		{
			name: "nothing derivable",
			msg:  RawMessage{From: "someone@example.org", Subject: "hello"},
			want: UnknownField,
		},
		{
			name: "empty message",
			msg:  RawMessage{},
			want: UnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.Company(tt.msg))
		})
	}
}

func TestExtractRole(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name string
		msg  RawMessage
		want string
	}{
		{
			name: "marker phrase in subject",
			msg:  RawMessage{Subject: "Your application for Software Engineer at Acme"},
			want: "Software Engineer",
		},
		{
			name: "role prefix in subject",
			msg:  RawMessage{Subject: "Role: Data Scientist - next steps"},
			want: "Data Scientist",
		},
		{
			name: "known title without marker",
			msg:  RawMessage{Subject: "Interview loop", Body: "Regarding your backend application."},
			want: "Backend",
		},
		{
			name: "marker in body",
			msg:  RawMessage{Subject: "Next steps", Body: "Thanks for interviewing for Machine Learning Engineer at Globex."},
			want: "Machine Learning Engineer",
		},
		{
			name: "no role found",
			msg:  RawMessage{Subject: "Company update", Body: "General news."},
			want: UnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.Role(tt.msg))
		})
	}
}
