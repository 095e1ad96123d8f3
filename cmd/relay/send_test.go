package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehmetymw/notification-relay/internal/app"
	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
)

type fakeEmailTransport struct {
	sent []*domain.EmailMessage
}

func (f *fakeEmailTransport) Send(_ context.Context, msg *domain.EmailMessage) (*port.ProviderResponse, error) {
	f.sent = append(f.sent, msg)
	return &port.ProviderResponse{MessageID: "<cli@relay>", Accepted: msg.To}, nil
}

func TestReadPayload(t *testing.T) {
	got, err := readPayload(`{"to":"a@b.com"}`, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, `{"to":"a@b.com"}`, string(got))

	got, err = readPayload("  ", strings.NewReader(`{"to":"stdin"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"to":"stdin"}`, string(got))
}

func TestDispatchPayload(t *testing.T) {
	transport := &fakeEmailTransport{}
	d := app.NewDispatcher(transport, nil, nil, app.DispatcherSettings{
		DefaultSender: domain.Address{Email: "relay@example.com"},
		Brand:         "Notification Relay",
	})

	result := dispatchPayload(context.Background(), d, domain.ChannelEmail,
		[]byte(`{"to":"a@b.com","senderName":"Desk","subject":"Hi","content":"Hello"}`))

	require.True(t, result.Success)
	assert.Equal(t, "<cli@relay>", result.ProviderMessageID)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Desk", transport.sent[0].From.Name)

	result = dispatchPayload(context.Background(), d, domain.ChannelSMS, []byte(`{"to":"+15555555555","content":"hi"}`))
	assert.False(t, result.Success)
	assert.Equal(t, "sms transport not configured", result.Error)

	result = dispatchPayload(context.Background(), d, domain.ChannelEmail, []byte(`{"to":`))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, domain.ErrMalformedBody.Error())
}

func TestEnvelopeFor(t *testing.T) {
	quota := 3
	sms := domain.Succeeded("t-1")
	sms.QuotaRemaining = &quota

	tests := []struct {
		name string
		ch   domain.Channel
		in   domain.Result
		want string
	}{
		{"email", domain.ChannelEmail, domain.Succeeded("<m@x>"), `{"success":true,"messageId":"<m@x>"}`},
		{"sms", domain.ChannelSMS, sms, `{"success":true,"textId":"t-1","quotaRemaining":3}`},
		{"failure", domain.ChannelSMS, domain.Failed(domain.NewGatewayError("")), `{"success":false,"error":"Failed to send SMS"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, envelopeFor(tt.ch, tt.in)))
			assert.JSONEq(t, tt.want, buf.String())
		})
	}
}
