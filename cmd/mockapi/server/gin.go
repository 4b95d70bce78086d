package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-crud-console/internal/adapter/gin/handler"
	ginrouter "user-crud-console/internal/adapter/gin/router"
	"user-crud-console/pkg/ratelimit"
)

// SetupGinServer creates the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	limiter *ratelimit.Limiter,
	serviceName string,
	l *zap.Logger,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := ginrouter.SetupRouter(handler, limiter, serviceName, l)

	return &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
