package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

type stubDispatcher struct {
	mu     sync.Mutex
	result domain.Result
	relays []domain.RelayRequest
	emails []domain.NotificationRequest
	sms    []domain.NotificationRequest
}

func (s *stubDispatcher) SendEmail(_ context.Context, req domain.NotificationRequest) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, req)
	return s.result
}

func (s *stubDispatcher) SendSMS(_ context.Context, req domain.NotificationRequest) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sms = append(s.sms, req)
	return s.result
}

func (s *stubDispatcher) Relay(_ context.Context, req domain.RelayRequest) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relays = append(s.relays, req)
	return s.result
}

type stubChecker struct {
	err error
}

func (s stubChecker) Verify(context.Context) error { return s.err }

var errAuth = errors.New("535 5.7.8 Username and Password not accepted")

func setupTestRouter(dispatcher Dispatcher, checker *stubChecker) *gin.Engine {
	var health *HealthHandler
	if checker != nil {
		health = NewHealthHandler("Notification Relay", *checker)
	} else {
		health = NewHealthHandler("Notification Relay", nil)
	}

	r := NewRouter(RouterDeps{
		RelayHandler:    NewRelayHandler(dispatcher),
		FunctionHandler: NewFunctionHandler(dispatcher),
		HealthHandler:   health,
		ServiceName:     "notification-relay",
		Logger:          zap.NewNop(),
	})
	gin.SetMode(gin.TestMode)
	return r
}
