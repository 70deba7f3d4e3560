package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealEntry is one logged meal counted against the daily calorie target.
type MealEntry struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_meal_user_day" json:"-"`
	RecipeID      *uuid.UUID `gorm:"type:varchar(36)" json:"recipe_id,omitempty"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Calories      float64    `json:"calories"`
	Protein       float64    `json:"protein"`
	Fat           float64    `json:"fat"`
	Carbohydrates float64    `json:"carbohydrates"`
	EatenAt       time.Time  `gorm:"not null;index:idx_meal_user_day" json:"eaten_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (m *MealEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
