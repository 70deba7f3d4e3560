package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("user data not found")
	ErrInvalidProfile  = errors.New("invalid user data")
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user data: %w", err)
	}
	return &profile, nil
}

// UpdateProfile creates or patches the profile. When no target is supplied
// and none is stored yet, one is computed from the biometrics.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateUserDataRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		profile = &models.UserProfile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if req.Goal != nil {
		profile.Goal = strings.TrimSpace(*req.Goal)
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Gender != nil {
		profile.Gender = strings.TrimSpace(*req.Gender)
	}
	if req.Height != nil {
		profile.Height = *req.Height
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}

	switch {
	case req.TargetCalories != nil:
		if *req.TargetCalories <= 0 {
			return nil, fmt.Errorf("%w: target_calories must be positive", ErrInvalidProfile)
		}
		profile.TargetCalories = *req.TargetCalories
	case profile.TargetCalories == 0:
		target, err := TargetCalories(profile.Age, profile.Gender, profile.Height, profile.Weight, profile.Goal)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
		profile.TargetCalories = target
	case biometricsChanged(req):
		// Keep the stored target when the biometrics are still incomplete
		if target, err := TargetCalories(profile.Age, profile.Gender, profile.Height, profile.Weight, profile.Goal); err == nil {
			log.Printf("[ProfileService] recomputed target of %d kcal for user %s", target, userID)
			profile.TargetCalories = target
		}
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save user data: %w", err)
	}
	return profile, nil
}

// UserData projects the profile onto the fields the assistant reads.
func UserData(p *models.UserProfile) *types.UserData {
	return &types.UserData{
		TargetCalories: p.TargetCalories,
		Goal:           p.Goal,
		Age:            p.Age,
		Gender:         p.Gender,
		Height:         p.Height,
		Weight:         p.Weight,
	}
}

func biometricsChanged(req *types.UpdateUserDataRequest) bool {
	return req.Goal != nil || req.Age != nil || req.Gender != nil || req.Height != nil || req.Weight != nil
}
