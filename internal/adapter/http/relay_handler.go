package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehmetymw/notification-relay/internal/domain"
)

// Dispatcher is the part of app.Dispatcher the handlers call.
type Dispatcher interface {
	SendEmail(ctx context.Context, req domain.NotificationRequest) domain.Result
	SendSMS(ctx context.Context, req domain.NotificationRequest) domain.Result
	Relay(ctx context.Context, req domain.RelayRequest) domain.Result
}

type RelayHandler struct {
	dispatcher Dispatcher
}

func NewRelayHandler(dispatcher Dispatcher) *RelayHandler {
	return &RelayHandler{dispatcher: dispatcher}
}

func (h *RelayHandler) Send(c *gin.Context) {
	var req SendRequest
	if !bindBody(c, &req) {
		return
	}

	relayReq := req.ToDomain()
	if err := relayReq.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
		return
	}

	result := h.dispatcher.Relay(c.Request.Context(), relayReq)
	if !result.Success {
		respondFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, SendResponse{
		Success:   true,
		MessageID: result.ProviderMessageID,
		Accepted:  result.Accepted,
	})
}

// bindBody decodes the JSON body. A malformed body is answered like a
// provider failure.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		wrapped := fmt.Errorf("%w: %v", domain.ErrMalformedBody, err)
		_ = c.Error(wrapped)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(wrapped.Error()))
		return false
	}
	return true
}

func respondFailure(c *gin.Context, result domain.Result) {
	_ = c.Error(errors.New(result.Error))
	c.JSON(http.StatusInternalServerError, NewErrorResponse(result.Error))
}
