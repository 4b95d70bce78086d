package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-console/internal/adapter/gin/handler"
	"user-crud-console/internal/adapter/gin/middleware"
	"user-crud-console/pkg/ratelimit"
)

// SetupRouter configures and returns a Gin router serving the /users
// resource at the root, as JSONPlaceholder does. limiter may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	limiter *ratelimit.Limiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	users := router.Group("/users")
	users.Use(middleware.RateLimiter(limiter))
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
