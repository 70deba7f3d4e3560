package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile carries the biometrics and daily calorie target the meal
// assistant plans against.
type UserProfile struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`
	TargetCalories int       `gorm:"not null" json:"target_calories"`
	Goal           string    `gorm:"size:50" json:"goal"`
	Age            int       `json:"age"`
	Gender         string    `gorm:"size:20" json:"gender"`
	Height         float64   `json:"height"`
	Weight         float64   `json:"weight"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
