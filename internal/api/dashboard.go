package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/types"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	meals   service.IMealService
	recipes service.IRecipeService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(meals service.IMealService, recipes service.IRecipeService) *DashboardHandler {
	return &DashboardHandler{
		meals:   meals,
		recipes: recipes,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/today", h.GetToday)
	}
}

// DashboardToday is today's calorie budget plus a recipe count.
type DashboardToday struct {
	*types.DailySummary
	RecipeCount int `json:"recipe_count"`
}

// GetToday returns today's budget for the current user
func (h *DashboardHandler) GetToday(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.meals.Today(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[DashboardHandler] summary failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard", "details": err.Error()})
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), userID, "")
	if err != nil {
		log.Printf("[DashboardHandler] recipe count failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, DashboardToday{DailySummary: summary, RecipeCount: len(recipes)})
}
