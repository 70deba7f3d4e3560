package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMissingFields  = errors.New("Missing required fields")
	ErrRecipeNotFound = errors.New("recipe not found")
)

// RecipeService handles recipe operations
type RecipeService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, embeddingService EmbeddingServiceInterface) *RecipeService {
	if embeddingService == nil {
		embeddingService = NewEmbeddingService()
	}
	return &RecipeService{
		db:               db,
		embeddingService: embeddingService,
	}
}

// CreateRecipe validates and stores a recipe owned by userID.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" || len(req.Ingredients) == 0 || strings.TrimSpace(req.Instructions) == "" {
		return nil, ErrMissingFields
	}

	ingredients := make(models.IngredientList, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return nil, ErrMissingFields
		}
		// Derive macros when only reference values were sent
		if ing.Per100g != nil && ing.Weight > 0 && isZeroMacros(ing) {
			ing = ScaleIngredient(ing.Name, *ing.Per100g, ing.Weight)
		}
		ingredients = append(ingredients, ing)
	}

	vec, err := s.embeddingService.GenerateEmbedding(recipeSearchText(req.Name, ingredients))
	if err != nil {
		return nil, fmt.Errorf("failed to embed recipe: %w", err)
	}

	recipe := &models.Recipe{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Ingredients:  ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		Embedding:    &vec,
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	recipe.Nutrition = TotalNutrition(recipe.Ingredients)
	return recipe, nil
}

// GetRecipe returns the recipe only when userID owns it.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe: %w", err)
	}
	recipe.Nutrition = TotalNutrition(recipe.Ingredients)
	return &recipe, nil
}

// DeleteRecipe deletes a recipe owned by userID
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Recipe{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// ListRecipes lists the caller's recipes, newest first. A non-empty query
// narrows the list and, on Postgres, ranks it by embedding distance.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID)

	query = strings.TrimSpace(query)
	switch {
	case query == "":
		dbQuery = dbQuery.Order("created_at DESC")
	case s.db.Dialector.Name() == "postgres":
		vec, err := s.embeddingService.GenerateEmbedding(query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.
			Where("LOWER(name) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:  "embedding <-> ?, created_at DESC",
				Vars: []interface{}{vec},
			}})
	default:
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.
			Where("LOWER(name) LIKE ? OR LOWER(ingredients) LIKE ?", like, like).
			Order("created_at DESC")
	}

	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	for i := range recipes {
		recipes[i].Nutrition = TotalNutrition(recipes[i].Ingredients)
	}
	return recipes, nil
}

// SetImageKey records where the recipe photo lives in object storage.
func (s *RecipeService) SetImageKey(ctx context.Context, userID, id uuid.UUID, key string) error {
	res := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("image_key", key)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func isZeroMacros(ing models.Ingredient) bool {
	return ing.Protein == 0 && ing.Fat == 0 && ing.Carbohydrates == 0 && ing.Calories == 0
}
