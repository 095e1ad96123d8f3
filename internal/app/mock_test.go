package app

import (
	"context"
	"sync"

	"github.com/mehmetymw/notification-relay/internal/domain"
	"github.com/mehmetymw/notification-relay/internal/port"
)

type mockEmailTransport struct {
	mu        sync.Mutex
	sent      []*domain.EmailMessage
	response  *port.ProviderResponse
	err       error
	verifyErr error
}

func (m *mockEmailTransport) Send(_ context.Context, msg *domain.EmailMessage) (*port.ProviderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.response, m.err
}

func (m *mockEmailTransport) Verify(_ context.Context) error {
	return m.verifyErr
}

type mockSMSGateway struct {
	mu       sync.Mutex
	sent     []*domain.SMSMessage
	response *port.ProviderResponse
	err      error
}

func (m *mockSMSGateway) Send(_ context.Context, msg *domain.SMSMessage) (*port.ProviderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.response, m.err
}

type recordingObserver struct {
	mu     sync.Mutex
	events []domain.DispatchEvent
}

func (r *recordingObserver) Dispatched(_ context.Context, ev domain.DispatchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}
