package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/types"
)

type MealHandler struct {
	meals service.IMealService
}

func NewMealHandler(meals service.IMealService) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.LogMeal)
		meals.GET("", h.ListMeals)
	}
}

func (h *MealHandler) LogMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.meals.LogMeal(c.Request.Context(), userID, &req)
	switch {
	case errors.Is(err, service.ErrInvalidMeal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	case err != nil:
		log.Printf("[MealHandler] log failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log meal", "details": err.Error()})
	default:
		c.JSON(http.StatusCreated, entry)
	}
}

// ListMeals returns the summary for ?date=YYYY-MM-DD, today by default.
func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var (
		summary *types.DailySummary
		err     error
	)
	if date := c.Query("date"); date != "" {
		day, perr := time.Parse(service.DateLayout, date)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		summary, err = h.meals.DailySummary(c.Request.Context(), userID, day)
	} else {
		summary, err = h.meals.Today(c.Request.Context(), userID)
	}
	if err != nil {
		log.Printf("[MealHandler] summary failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meals", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
