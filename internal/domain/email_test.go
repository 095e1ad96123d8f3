package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSender = Address{Name: "Relay", Email: "noreply@example.com"}

func TestRenderHTML_LineBreaks(t *testing.T) {
	html, err := RenderHTML("Acme", "Dana", "Visit", "line one\nline two")

	require.NoError(t, err)
	assert.Contains(t, html, "line one<br>line two")
	assert.Contains(t, html, "Acme Message")
	assert.Contains(t, html, "<strong>From:</strong> Dana")
	assert.Contains(t, html, "<strong>Subject:</strong> Visit")
}

func TestRenderHTML_EscapesFields(t *testing.T) {
	html, err := RenderHTML("Acme", "<b>Dana</b>", "a & b", "<script>alert(1)</script>")

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&lt;b&gt;Dana&lt;/b&gt;")
	assert.Contains(t, html, "a &amp; b")
}

func TestNewEmailMessage_Bodies(t *testing.T) {
	req := NotificationRequest{
		To:         "patient@example.com",
		From:       "care@example.com",
		SenderName: "Care Team",
		Subject:    "Reminder",
		Content:    "Hello\nSee you tomorrow",
	}

	msg, err := NewEmailMessage(req, testSender, "Acme")

	require.NoError(t, err)
	assert.Equal(t, "Hello\nSee you tomorrow", msg.Text)
	assert.Contains(t, msg.HTML, "Hello<br>See you tomorrow")
	assert.Equal(t, Address{Name: "Care Team", Email: "care@example.com"}, msg.From)
	assert.Equal(t, []string{"patient@example.com"}, msg.To)
	assert.Equal(t, "Reminder", msg.Subject)
}

func TestNewEmailMessage_DefaultSender(t *testing.T) {
	req := NotificationRequest{To: "patient@example.com", Content: "Hello"}

	msg, err := NewEmailMessage(req, testSender, "Acme")

	require.NoError(t, err)
	assert.Equal(t, testSender, msg.From)
}

func TestNewEmailMessage_SenderNameKeptWithDefaultAddress(t *testing.T) {
	req := NotificationRequest{To: "patient@example.com", SenderName: "Dr. Lee", Content: "Hello"}

	msg, err := NewEmailMessage(req, testSender, "Acme")

	require.NoError(t, err)
	assert.Equal(t, Address{Name: "Dr. Lee", Email: "noreply@example.com"}, msg.From)
}

func TestNewEmailMessage_NoSender(t *testing.T) {
	req := NotificationRequest{To: "patient@example.com", Content: "Hello"}

	_, err := NewEmailMessage(req, Address{}, "Acme")

	assert.ErrorIs(t, err, ErrMissingSender)
}

func TestNewEmailMessage_InvalidRequest(t *testing.T) {
	_, err := NewEmailMessage(NotificationRequest{To: "bad", Content: "Hello"}, testSender, "Acme")

	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestNewRelayMessage_HTMLFallsBackToText(t *testing.T) {
	msg, err := NewRelayMessage(RelayRequest{To: "a@b.com", Subject: "S", Text: "body"}, testSender)

	require.NoError(t, err)
	assert.Equal(t, "body", msg.Text)
	assert.Equal(t, "body", msg.HTML)
	assert.Equal(t, testSender, msg.From)
}

func TestNewRelayMessage_ExplicitFrom(t *testing.T) {
	msg, err := NewRelayMessage(RelayRequest{
		To:      "a@b.com, c@d.com",
		From:    `"Front Desk" <desk@example.com>`,
		Subject: "S",
		HTML:    "<p>body</p>",
	}, testSender)

	require.NoError(t, err)
	assert.Equal(t, `"Front Desk" <desk@example.com>`, msg.From.Email)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, msg.To)
	assert.Empty(t, msg.Text)
	assert.Equal(t, "<p>body</p>", msg.HTML)
}

func TestNewRelayMessage_RecipientForms(t *testing.T) {
	msg, err := NewRelayMessage(RelayRequest{
		To:      `Bob <bob@example.com>, "Smith, Ann" <ann@example.com>, admin@localhost`,
		Subject: "S",
		Text:    "body",
	}, testSender)

	require.NoError(t, err)
	assert.Equal(t, []string{`"Bob" <bob@example.com>`, `"Smith, Ann" <ann@example.com>`, "admin@localhost"}, msg.To)
}

func TestNewEmailMessage_FromWithDisplayName(t *testing.T) {
	req := NotificationRequest{To: "patient@example.com", From: "Front Desk <desk@example.com>", Content: "Hello"}

	msg, err := NewEmailMessage(req, testSender, "Acme")

	require.NoError(t, err)
	assert.Equal(t, Address{Name: "Front Desk", Email: "desk@example.com"}, msg.From)
}

func TestNewRelayMessage_InvalidRecipient(t *testing.T) {
	_, err := NewRelayMessage(RelayRequest{To: "a@b.com, nope", Subject: "S", Text: "body"}, testSender)

	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestNewRelayMessage_MissingFields(t *testing.T) {
	_, err := NewRelayMessage(RelayRequest{To: "a@b.com", Text: "body"}, testSender)

	assert.ErrorIs(t, err, ErrMissingFields)
}
