package port

import (
	"context"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

type ProviderResponse struct {
	MessageID      string
	Accepted       []string
	QuotaRemaining *int
}

// EmailTransport submits one message to the mail provider.
type EmailTransport interface {
	Send(ctx context.Context, msg *domain.EmailMessage) (*ProviderResponse, error)
}

// SMSGateway hands one text message to the SMS provider.
type SMSGateway interface {
	Send(ctx context.Context, msg *domain.SMSMessage) (*ProviderResponse, error)
}

type ConnectivityChecker interface {
	Verify(ctx context.Context) error
}
