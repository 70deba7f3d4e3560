package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

var ErrInvalidMeal = errors.New("meal needs a name or a recipe_id")

// DateLayout is the calendar day format accepted by the meal log.
const DateLayout = "2006-01-02"

// MealService records eaten meals and reports the daily calorie budget.
type MealService struct {
	db       *gorm.DB
	recipes  *RecipeService
	profiles *ProfileService
	now      func() time.Time
}

func NewMealService(db *gorm.DB, recipes *RecipeService, profiles *ProfileService) *MealService {
	return &MealService{
		db:       db,
		recipes:  recipes,
		profiles: profiles,
		now:      time.Now,
	}
}

// LogMeal stores an entry. With a recipe_id the macros come from the
// recipe scaled by servings; otherwise the posted values are used.
func (s *MealService) LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*models.MealEntry, error) {
	entry := &models.MealEntry{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		Calories:      req.Calories,
		Protein:       req.Protein,
		Fat:           req.Fat,
		Carbohydrates: req.Carbohydrates,
		EatenAt:       s.now().UTC(),
	}
	if req.EatenAt != nil {
		entry.EatenAt = req.EatenAt.UTC()
	}

	if req.RecipeID != "" {
		recipeID, err := uuid.Parse(req.RecipeID)
		if err != nil {
			return nil, ErrRecipeNotFound
		}
		recipe, err := s.recipes.GetRecipe(ctx, userID, recipeID)
		if err != nil {
			return nil, err
		}
		servings := req.Servings
		if servings <= 0 {
			servings = 1
		}
		m := ScaleMacros(recipe.Nutrition, servings)
		entry.RecipeID = &recipe.ID
		entry.Calories, entry.Protein, entry.Fat, entry.Carbohydrates = m.Calories, m.Protein, m.Fat, m.Carbohydrates
		if entry.Name == "" {
			entry.Name = recipe.Name
		}
	}

	if entry.Name == "" || entry.Calories < 0 {
		return nil, ErrInvalidMeal
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}
	return entry, nil
}

// DailySummary lists the entries for the UTC day containing day.
func (s *MealService) DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*types.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	entries := []models.MealEntry{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND eaten_at >= ? AND eaten_at < ?", userID, start, end).
		Order("eaten_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}

	summary := &types.DailySummary{
		Date:    start.Format(DateLayout),
		Entries: entries,
	}
	for _, e := range entries {
		summary.Totals.Calories += e.Calories
		summary.Totals.Protein += e.Protein
		summary.Totals.Fat += e.Fat
		summary.Totals.Carbohydrates += e.Carbohydrates
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		summary.TargetCalories = profile.TargetCalories
		summary.RemainingCalories = float64(profile.TargetCalories) - summary.Totals.Calories
	case !errors.Is(err, ErrProfileNotFound):
		return nil, err
	}
	return summary, nil
}

// Today is DailySummary for the current UTC day.
func (s *MealService) Today(ctx context.Context, userID uuid.UUID) (*types.DailySummary, error) {
	return s.DailySummary(ctx, userID, s.now().UTC())
}
