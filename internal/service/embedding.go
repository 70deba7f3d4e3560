package service

import (
	"strings"

	"github.com/nutriplan/backend/internal/models"
	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingServiceInterface turns recipe text into a search vector.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// EmbeddingService is the built-in deterministic embedder.
type EmbeddingService struct{}

func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	return GenerateEmbedding(text), nil
}

// GenerateEmbedding returns a simple deterministic embedding for the given text.
// This implementation counts the total length, vowels and consonants.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants})
}

// recipeSearchText is what a recipe is embedded and matched on.
func recipeSearchText(name string, ingredients []models.Ingredient) string {
	parts := make([]string, 0, len(ingredients)+1)
	parts = append(parts, name)
	for _, ing := range ingredients {
		parts = append(parts, ing.Name)
	}
	return strings.Join(parts, " ")
}
