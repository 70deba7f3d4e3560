package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
)

var ErrUnsupportedImage = errors.New("only jpeg, png and webp images are supported")

// presignTTL bounds how long a returned image URL stays valid.
const presignTTL = 15 * time.Minute

// ObjectStore is the subset of S3 the recipe photos need.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, key string) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores recipe photos in object storage
type ImageService struct {
	store   ObjectStore
	recipes *RecipeService
}

// NewImageService creates a new ImageService instance
func NewImageService(store ObjectStore, recipes *RecipeService) *ImageService {
	return &ImageService{store: store, recipes: recipes}
}

// UploadRecipeImage replaces the photo of a recipe owned by userID.
func (s *ImageService) UploadRecipeImage(ctx context.Context, userID, recipeID uuid.UUID, contentType string, body io.Reader) (*models.Recipe, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	recipe, err := s.recipes.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	key := path.Join("recipes", userID.String(), recipeID.String()+"-"+uuid.NewString()[:8]+ext)
	if err := s.store.PutObject(ctx, key, contentType, body); err != nil {
		return nil, err
	}
	if err := s.recipes.SetImageKey(ctx, userID, recipeID, key); err != nil {
		return nil, err
	}

	if recipe.ImageKey != "" {
		if err := s.store.DeleteObject(ctx, recipe.ImageKey); err != nil {
			log.Printf("[ImageService] failed to delete old image %s: %v", recipe.ImageKey, err)
		}
	}
	recipe.ImageKey = key

	if err := s.AttachImageURL(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// AttachImageURL fills recipe.ImageURL with a presigned link when a photo exists.
func (s *ImageService) AttachImageURL(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ImageKey == "" {
		return nil
	}
	url, err := s.store.GeneratePresignedURL(ctx, recipe.ImageKey, presignTTL)
	if err != nil {
		return fmt.Errorf("failed to presign image: %w", err)
	}
	recipe.ImageURL = url
	return nil
}
