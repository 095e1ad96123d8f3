package http

import "github.com/mehmetymw/notification-relay/internal/domain"

// SendRequest is the body of POST /send. Required fields are checked by
// domain.RelayRequest.Validate so the error names every missing field.
type SendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

func (r SendRequest) ToDomain() domain.RelayRequest {
	return domain.RelayRequest{
		To:      r.To,
		From:    r.From,
		Subject: r.Subject,
		Text:    r.Text,
		HTML:    r.HTML,
	}
}

// FunctionRequest is the body shared by the function-style endpoints.
type FunctionRequest struct {
	To         string `json:"to"`
	From       string `json:"from"`
	SenderName string `json:"senderName"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
}

func (r FunctionRequest) ToDomain() domain.NotificationRequest {
	return domain.NotificationRequest{
		To:         r.To,
		From:       r.From,
		SenderName: r.SenderName,
		Subject:    r.Subject,
		Content:    r.Content,
	}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SendResponse struct {
	Success   bool     `json:"success"`
	MessageID string   `json:"messageId"`
	Accepted  []string `json:"accepted"`
}

type EmailFunctionResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

type SMSFunctionResponse struct {
	Success        bool   `json:"success"`
	TextID         string `json:"textId"`
	QuotaRemaining *int   `json:"quotaRemaining,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}
