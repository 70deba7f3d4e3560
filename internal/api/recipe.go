package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/types"
)

// maxImageSize caps recipe photo uploads.
const maxImageSize = 5 << 20

type RecipeHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
}

// NewRecipeHandler wires the recipe endpoints. images may be nil when no
// bucket is configured; uploads then answer 503.
func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.PUT("/:id/image", h.UploadImage)
	}
}

// ListRecipes returns the caller's recipes, newest first.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		log.Printf("[RecipeHandler] list failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes", "details": err.Error()})
		return
	}

	if recipes == nil {
		recipes = []models.Recipe{}
	}
	for i := range recipes {
		h.attachImage(c, &recipes[i])
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrMissingFields.Error(), "details": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrMissingFields.Error()})
			return
		}
		log.Printf("[RecipeHandler] create failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		h.recipeError(c, err, "Failed to fetch recipe")
		return
	}

	h.attachImage(c, recipe)
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		h.recipeError(c, err, "Failed to delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores the multipart "image" field as the recipe photo.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file", "details": err.Error()})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image", "details": err.Error()})
		return
	}
	defer src.Close()

	recipe, err := h.images.UploadRecipeImage(c.Request.Context(), userID, id, file.Header.Get("Content-Type"), src)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.recipeError(c, err, "Failed to upload image")
		return
	}

	h.attachImage(c, recipe)
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) recipeError(c *gin.Context, err error, message string) {
	if errors.Is(err, service.ErrRecipeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	log.Printf("[RecipeHandler] %s: %v", message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}

func (h *RecipeHandler) attachImage(c *gin.Context, recipe *models.Recipe) {
	if h.images == nil || recipe.ImageKey == "" {
		return
	}
	if err := h.images.AttachImageURL(c.Request.Context(), recipe); err != nil {
		log.Printf("[RecipeHandler] presign failed for recipe %s: %v", recipe.ID, err)
	}
}
