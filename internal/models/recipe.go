package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Macros is a protein/fat/carbohydrate/calorie quadruple.
type Macros struct {
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Calories      float64 `json:"calories"`
}

// Ingredient holds macros already scaled to Weight grams. Per100g is kept
// when the client supplied reference values.
type Ingredient struct {
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Calories      float64 `json:"calories"`
	Per100g       *Macros `json:"per100g,omitempty"`
}

// IngredientList is stored as a JSON document column
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredient list type %T", value)
	}

	return json.Unmarshal(bytes, l)
}

type Recipe struct {
	ID           uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID       uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Ingredients  IngredientList  `gorm:"type:jsonb;not null" json:"ingredients"`
	Instructions string          `gorm:"type:text;not null" json:"instructions"`
	PrepTime     *int             `json:"prep_time,omitempty"`
	ImageKey     string           `gorm:"size:255" json:"-"`
	Embedding    *pgvector.Vector `gorm:"type:vector(3)" json:"-"`

	Nutrition Macros `gorm:"-" json:"nutrition"`
	ImageURL  string `gorm:"-" json:"image_url,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
