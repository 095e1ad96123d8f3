package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FunctionHandler serves the function-style email and SMS invocations.
type FunctionHandler struct {
	dispatcher Dispatcher
}

func NewFunctionHandler(dispatcher Dispatcher) *FunctionHandler {
	return &FunctionHandler{dispatcher: dispatcher}
}

func (h *FunctionHandler) SendEmail(c *gin.Context) {
	var req FunctionRequest
	if !bindBody(c, &req) {
		return
	}

	result := h.dispatcher.SendEmail(c.Request.Context(), req.ToDomain())
	if !result.Success {
		respondFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, EmailFunctionResponse{
		Success:   true,
		MessageID: result.ProviderMessageID,
	})
}

func (h *FunctionHandler) SendSMS(c *gin.Context) {
	var req FunctionRequest
	if !bindBody(c, &req) {
		return
	}

	result := h.dispatcher.SendSMS(c.Request.Context(), req.ToDomain())
	if !result.Success {
		respondFailure(c, result)
		return
	}

	c.JSON(http.StatusOK, SMSFunctionResponse{
		Success:        true,
		TextID:         result.ProviderMessageID,
		QuotaRemaining: result.QuotaRemaining,
	})
}
