package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

func TestFunctionSendEmail(t *testing.T) {
	dispatcher := &stubDispatcher{result: domain.Succeeded("<m2@relay>")}
	r := setupTestRouter(dispatcher, nil)

	w := postJSON(t, r, "/functions/send-email",
		`{"to":"a@b.com","from":"desk@example.com","senderName":"Front Desk","subject":"Hi","content":"line\nline"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"messageId":"<m2@relay>"}`, w.Body.String())

	require.Len(t, dispatcher.emails, 1)
	assert.Equal(t, domain.NotificationRequest{
		To:         "a@b.com",
		From:       "desk@example.com",
		SenderName: "Front Desk",
		Subject:    "Hi",
		Content:    "line\nline",
	}, dispatcher.emails[0])
}

func TestFunctionSendSMS(t *testing.T) {
	quota := 7
	result := domain.Succeeded("98765")
	result.QuotaRemaining = &quota
	dispatcher := &stubDispatcher{result: result}
	r := setupTestRouter(dispatcher, nil)

	w := postJSON(t, r, "/functions/send-sms", `{"to":"+15555555555","from":"Clinic","content":"hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"textId":"98765","quotaRemaining":7}`, w.Body.String())
	require.Len(t, dispatcher.sms, 1)
	assert.Equal(t, "Clinic", dispatcher.sms[0].From)
}

func TestFunctionSendSMS_GatewayFailure(t *testing.T) {
	dispatcher := &stubDispatcher{result: domain.Failed(domain.NewGatewayError(""))}
	r := setupTestRouter(dispatcher, nil)

	w := postJSON(t, r, "/functions/send-sms", `{"to":"+15555555555","content":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.DefaultGatewayFailure, resp.Error)
}

func TestFunctionSendEmail_MalformedBody(t *testing.T) {
	dispatcher := &stubDispatcher{}
	r := setupTestRouter(dispatcher, nil)

	w := postJSON(t, r, "/functions/send-email", `not json`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, dispatcher.emails)
}
