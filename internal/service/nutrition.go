package service

import (
	"errors"
	"math"
	"strings"

	"github.com/nutriplan/backend/internal/models"
)

// ErrInsufficientBiometrics is returned when a calorie target cannot be derived.
var ErrInsufficientBiometrics = errors.New("age, gender, height and weight are required to compute a calorie target")

// Activity multiplier for a sedentary lifestyle.
const sedentaryFactor = 1.2

// minTargetCalories floors computed targets.
const minTargetCalories = 1200

// TotalNutrition sums the macros of every ingredient. An empty list yields zeros.
func TotalNutrition(ingredients []models.Ingredient) models.Macros {
	var total models.Macros
	for _, ing := range ingredients {
		total.Protein += ing.Protein
		total.Fat += ing.Fat
		total.Carbohydrates += ing.Carbohydrates
		total.Calories += ing.Calories
	}
	return total
}

// ScaleIngredient derives the macros for weight grams from per-100g values.
func ScaleIngredient(name string, per100g models.Macros, weight float64) models.Ingredient {
	f := weight / 100
	ref := per100g
	return models.Ingredient{
		Name:          name,
		Weight:        weight,
		Protein:       round2(per100g.Protein * f),
		Fat:           round2(per100g.Fat * f),
		Carbohydrates: round2(per100g.Carbohydrates * f),
		Calories:      round2(per100g.Calories * f),
		Per100g:       &ref,
	}
}

// ScaleMacros multiplies every field by factor.
func ScaleMacros(m models.Macros, factor float64) models.Macros {
	return models.Macros{
		Protein:       round2(m.Protein * factor),
		Fat:           round2(m.Fat * factor),
		Carbohydrates: round2(m.Carbohydrates * factor),
		Calories:      round2(m.Calories * factor),
	}
}

// TargetCalories estimates a daily intake with the Mifflin-St Jeor equation
// for a sedentary adult, shifted by 500 kcal for weight loss or gain.
func TargetCalories(age int, gender string, heightCm, weightKg float64, goal string) (int, error) {
	if age <= 0 || heightCm <= 0 || weightKg <= 0 || strings.TrimSpace(gender) == "" {
		return 0, ErrInsufficientBiometrics
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m", "man":
		bmr += 5
	case "female", "f", "woman":
		bmr -= 161
	default:
		bmr -= 78
	}

	target := bmr * sedentaryFactor
	switch goalDirection(goal) {
	case "lose":
		target -= 500
	case "gain":
		target += 500
	}

	if target < minTargetCalories {
		target = minTargetCalories
	}
	return int(math.Round(target)), nil
}

func goalDirection(goal string) string {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "lose"), strings.Contains(g, "loss"), strings.Contains(g, "cut"):
		return "lose"
	case strings.Contains(g, "gain"), strings.Contains(g, "bulk"), strings.Contains(g, "build"):
		return "gain"
	default:
		return "maintain"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
