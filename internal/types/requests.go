package types

import (
	"encoding/json"
	"time"

	"github.com/nutriplan/backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateRecipeRequest mirrors the recipe form. Required fields are checked
// by the service so every omission yields the same error body.
type CreateRecipeRequest struct {
	Name         string              `json:"name"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Instructions string              `json:"instructions"`
	PrepTime     *int                `json:"prep_time"`
}

// UnmarshalJSON also accepts the camelCase prepTime sent by older forms.
func (r *CreateRecipeRequest) UnmarshalJSON(data []byte) error {
	type plain CreateRecipeRequest
	aux := struct {
		*plain
		CamelPrepTime *int `json:"prepTime"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.PrepTime == nil {
		r.PrepTime = aux.CamelPrepTime
	}
	return nil
}

// UserData is the profile view consumed by the assistant and the frontend.
type UserData struct {
	TargetCalories int     `json:"target_calories"`
	Goal           string  `json:"goal"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
}

// UpdateUserDataRequest only touches the fields that are present.
type UpdateUserDataRequest struct {
	TargetCalories *int     `json:"target_calories"`
	Goal           *string  `json:"goal"`
	Age            *int     `json:"age"`
	Gender         *string  `json:"gender"`
	Height         *float64 `json:"height"`
	Weight         *float64 `json:"weight"`
}

type LogMealRequest struct {
	Name          string     `json:"name"`
	RecipeID      string     `json:"recipe_id"`
	Servings      float64    `json:"servings"`
	Calories      float64    `json:"calories"`
	Protein       float64    `json:"protein"`
	Fat           float64    `json:"fat"`
	Carbohydrates float64    `json:"carbohydrates"`
	EatenAt       *time.Time `json:"eaten_at"`
}

// DailySummary is the calorie budget for one calendar day.
type DailySummary struct {
	Date              string             `json:"date"`
	Entries           []models.MealEntry `json:"entries"`
	Totals            models.Macros      `json:"totals"`
	TargetCalories    int                `json:"target_calories"`
	RemainingCalories float64            `json:"remaining_calories"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}
