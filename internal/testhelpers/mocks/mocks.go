// Package mocks provides testify mocks of the service interfaces for
// handler tests.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/types"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockProfileService is a mock implementation of service.IProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateUserDataRequest) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// MockMealService is a mock implementation of service.IMealService
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*models.MealEntry, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealEntry), args.Error(1)
}

func (m *MockMealService) DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*types.DailySummary, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DailySummary), args.Error(1)
}

func (m *MockMealService) Today(ctx context.Context, userID uuid.UUID) (*types.DailySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DailySummary), args.Error(1)
}

// MockImageService is a mock implementation of service.IImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, contentType string, body io.Reader) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockImageService) AttachImageURL(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	if args.Error(0) == nil {
		recipe.ImageURL = "https://images.example.com/" + recipe.ImageKey
	}
	return args.Error(0)
}

// MockAssistantService is a mock implementation of service.IAssistantService
type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) StartSession(ctx context.Context, userID uuid.UUID) (*service.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAssistantService) GetSession(ctx context.Context, userID uuid.UUID, id string) (*service.Session, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAssistantService) Reply(ctx context.Context, userID uuid.UUID, sessionID, input string) (*service.Reply, error) {
	args := m.Called(ctx, userID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Reply), args.Error(1)
}

var (
	_ service.IAuthService      = (*MockAuthService)(nil)
	_ service.IProfileService   = (*MockProfileService)(nil)
	_ service.IRecipeService    = (*MockRecipeService)(nil)
	_ service.IMealService      = (*MockMealService)(nil)
	_ service.IImageService     = (*MockImageService)(nil)
	_ service.IAssistantService = (*MockAssistantService)(nil)
)
