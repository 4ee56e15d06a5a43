package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestHeaderValue(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "FROM", Value: "recruiting@acme.com"},
				{Name: "Subject", Value: "Your application"},
			},
		},
	}

	assert.Equal(t, "recruiting@acme.com", HeaderValue(msg, "From"))
	assert.Equal(t, "Your application", HeaderValue(msg, "subject"))
	assert.Equal(t, "", HeaderValue(msg, "Date"))
	assert.Equal(t, "", HeaderValue(&gmail.Message{}, "From"))
	assert.Equal(t, "", HeaderValue(nil, "From"))
}

func TestToRawMessagePlainBody(t *testing.T) {
	msg := &gmail.Message{
		Id:           "m1",
		InternalDate: time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC).UnixMilli(),
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "recruiting@acme.com"},
				{Name: "Subject", Value: "Your application"},
			},
			Body: &gmail.MessagePartBody{Data: b64("Thank you for applying.")},
		},
	}

	raw := ToRawMessage(msg)

	assert.Equal(t, "m1", raw.ID)
	assert.Equal(t, "recruiting@acme.com", raw.From)
	assert.Equal(t, "Your application", raw.Subject)
	assert.Equal(t, "Thank you for applying.", raw.Body)
	assert.Equal(t, time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC), raw.Received.UTC())
}

func TestToRawMessageMultipart(t *testing.T) {
	msg := &gmail.Message{
		Id: "m2",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>hi</p>")}},
				{
					MimeType: "multipart/mixed",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain text wins")}},
					},
				},
			},
		},
	}

	assert.Equal(t, "plain text wins", ToRawMessage(msg).Body)
}

func TestToRawMessageDefaults(t *testing.T) {
	raw := ToRawMessage(&gmail.Message{Id: "m3"})

	assert.Equal(t, "m3", raw.ID)
	assert.Empty(t, raw.From)
	assert.Empty(t, raw.Subject)
	assert.Empty(t, raw.Body)
	assert.True(t, raw.Received.IsZero())
}

func TestDecodeBody(t *testing.T) {
	// Gmail omits padding; both forms must decode.
	padded := base64.URLEncoding.EncodeToString([]byte("hello"))
	unpadded := base64.RawURLEncoding.EncodeToString([]byte("hello"))

	assert.Equal(t, "hello", decodeBody(padded))
	assert.Equal(t, "hello", decodeBody(unpadded))
	assert.Equal(t, "", decodeBody("not base64!!"))
}
