package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillconnect/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	sessionH *SessionHandler,
	chatH *ChatHandler,
	feedbackH *FeedbackHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Rutas publicas: registro y auth.
	r.POST("/users", userH.Register)
	auth := r.Group("/auth")
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)

	// Rutas protegidas por JWT.
	api := r.Group("/", JWTAuthMiddleware(jwtSvc))
	api.PUT("/profile", userH.UpdateProfile)
	api.GET("/mentors", userH.ListMentors)

	api.GET("/sessions", sessionH.List)
	api.POST("/sessions", sessionH.Book)
	api.PUT("/sessions/:id/end", sessionH.End)

	api.GET("/conversations", chatH.ListConversations)
	api.GET("/messages/:partnerId", chatH.ListMessages)
	api.POST("/messages", chatH.PostMessage)

	api.POST("/feedback", feedbackH.Submit)
	api.GET("/feedback/:alumniId", feedbackH.List)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
