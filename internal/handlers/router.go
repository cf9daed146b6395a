package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mroshb/roommatch/internal/metrics"
	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/pkg/errors"
)

// NewRouter wires every API route. generateLimiter throttles match
// generation per user.
func NewRouter(m *HandlerManager, generateLimiter middleware.Limiter, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(corsOrigins))

	r.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "Endpoint not found"))
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", m.Health)
	api.POST("/auth/register", m.Register)
	api.POST("/auth/login", m.Login)
	api.POST("/waitlist", m.JoinWaitlist)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(m.Auth))

	authed.GET("/profile", m.GetProfile)
	authed.POST("/profile", m.SaveProfile)
	authed.PUT("/profile", m.SaveProfile)

	authed.GET("/matches", m.ListMatches)
	authed.POST("/matches/generate", middleware.RateLimit(generateLimiter), m.GenerateMatches)
	authed.POST("/matches/:id/respond", m.RespondToMatch)

	authed.POST("/telegram/link-code", m.TelegramLinkCode)

	return r
}
