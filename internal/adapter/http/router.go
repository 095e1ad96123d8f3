package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetymw/notification-relay/internal/adapter/http/middleware"
)

type RouterDeps struct {
	RelayHandler    *RelayHandler
	FunctionHandler *FunctionHandler
	HealthHandler   *HealthHandler
	// Metrics serves the Prometheus exposition; nil leaves /metrics unrouted.
	Metrics     http.Handler
	ServiceName string
	Logger      *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Tracing(deps.ServiceName))
	r.Use(middleware.Logging(deps.Logger))

	r.GET("/health", deps.HealthHandler.Liveness)
	r.GET("/health/ready", deps.HealthHandler.Readiness)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	r.POST("/send", deps.RelayHandler.Send)

	functions := r.Group("/functions")
	{
		functions.POST("/send-email", deps.FunctionHandler.SendEmail)
		functions.POST("/send-sms", deps.FunctionHandler.SendSMS)
	}

	return r
}
