package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateUserDataRequest) (*models.UserProfile, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error)
}

// IMealService defines the interface for the meal log
type IMealService interface {
	LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*models.MealEntry, error)
	DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*types.DailySummary, error)
	Today(ctx context.Context, userID uuid.UUID) (*types.DailySummary, error)
}

// IImageService defines the interface for recipe photos
type IImageService interface {
	UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, contentType string, body io.Reader) (*models.Recipe, error)
	AttachImageURL(ctx context.Context, recipe *models.Recipe) error
}

// IAssistantService defines the interface for the meal assistant
type IAssistantService interface {
	StartSession(ctx context.Context, userID uuid.UUID) (*Session, error)
	GetSession(ctx context.Context, userID uuid.UUID, id string) (*Session, error)
	Reply(ctx context.Context, userID uuid.UUID, sessionID, input string) (*Reply, error)
}

var (
	_ IAuthService      = (*AuthService)(nil)
	_ IRecipeService    = (*RecipeService)(nil)
	_ IMealService      = (*MealService)(nil)
	_ IImageService     = (*ImageService)(nil)
	_ IAssistantService = (*AssistantService)(nil)
)
