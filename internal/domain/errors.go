package domain

import "errors"

// DefaultGatewayFailure is reported when the SMS gateway rejects a message
// without saying why.
const DefaultGatewayFailure = "Failed to send SMS"

var (
	ErrInvalidChannel          = errors.New("invalid channel")
	ErrInvalidRecipient        = errors.New("invalid recipient")
	ErrEmptyRecipient          = errors.New("recipient is required")
	ErrInvalidSender           = errors.New("invalid sender address")
	ErrMissingSender           = errors.New("sender address is required")
	ErrEmptyContent            = errors.New("content is required")
	ErrMissingFields           = errors.New("missing required fields")
	ErrMalformedBody           = errors.New("malformed request body")
	ErrTransportNotConfigured  = errors.New("transport not configured")
	ErrProviderUnavailable     = errors.New("delivery provider unavailable")
	ErrCircuitOpen             = errors.New("circuit breaker is open")
	ErrUnexpectedProviderReply = errors.New("unexpected provider response")
)

// GatewayError carries the reason an SMS gateway gave for refusing a
// message. Its text is exactly that reason.
type GatewayError struct {
	Reason string
}

func NewGatewayError(reason string) *GatewayError {
	if reason == "" {
		reason = DefaultGatewayFailure
	}
	return &GatewayError{Reason: reason}
}

func (e *GatewayError) Error() string {
	return e.Reason
}
