package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/api"
	"github.com/nutriplan/backend/internal/middleware"
)

// Handlers groups everything SetupRouter mounts.
type Handlers struct {
	Auth      *api.AuthHandler
	Recipe    *api.RecipeHandler
	Profile   *api.ProfileHandler
	Meal      *api.MealHandler
	Dashboard *api.DashboardHandler
	Assistant *api.AssistantHandler
	Tools     *api.ToolsHandler
}

// SetupRouter configures the application routes. limiter may be nil, in
// which case assistant messages are not rate limited.
func SetupRouter(h Handlers, validator middleware.TokenValidator, limiter *middleware.RateLimiter, origins ...string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(origins...))

	router.GET("/health", api.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.GET("/health", api.HealthCheck)

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		h.Profile.RegisterRoutes(protected)
		h.Recipe.RegisterRoutes(protected)
		h.Meal.RegisterRoutes(protected)
		h.Dashboard.RegisterRoutes(protected)

		assistant := protected.Group("/assistant")
		{
			assistant.POST("/sessions", h.Assistant.CreateSession)
			assistant.GET("/sessions/:id", h.Assistant.GetSession)

			messages := []gin.HandlerFunc{h.Assistant.SendMessage}
			if limiter != nil {
				messages = append([]gin.HandlerFunc{limiter.RateLimitMiddleware()}, messages...)
			}
			assistant.POST("/sessions/:id/messages", messages...)

			assistant.GET("/tools", h.Tools.ListTools)
			assistant.POST("/tools/call", h.Tools.CallTool)
		}
	}

	return router
}
