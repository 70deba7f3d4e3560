package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/config"
	"github.com/nutriplan/backend/internal/api"
	"github.com/nutriplan/backend/internal/database"
	"github.com/nutriplan/backend/internal/llm"
	"github.com/nutriplan/backend/internal/middleware"
	"github.com/nutriplan/backend/internal/router"
	"github.com/nutriplan/backend/internal/server"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/tools"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, getMigrationsDir()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: sessions fall back to memory and messages go unlimited
	var (
		sessions service.SessionStore
		limiter  *middleware.RateLimiter
	)
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, using in-memory sessions: %v", err)
		sessions = service.NewMemorySessionStore()
	} else {
		defer redisClient.Close()
		sessions = service.NewRedisSessionStore(redisClient)
		limiter = middleware.NewAssistantRateLimiter(redisClient, cfg.AssistantLimit, cfg.AssistantWindow)
	}

	model, err := newChatModel(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize language model: %v", err)
	}

	registry := tools.NewDefaultRegistry(tools.Config{
		SpoonacularURL:    cfg.SpoonacularURL,
		SpoonacularAPIKey: cfg.SpoonacularAPIKey,
		GoogleSearchURL:   cfg.GoogleSearchURL,
		GoogleAPIKey:      cfg.GoogleAPIKey,
		GoogleCX:          cfg.GoogleCX,
		Region:            cfg.RestaurantRegion,
	})

	// Initialize services
	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	recipeService := service.NewRecipeService(db, service.NewEmbeddingService())
	mealService := service.NewMealService(db, recipeService, profileService)
	assistantService := service.NewAssistantService(model, registry, sessions, profileService, mealService, cfg.RestaurantRegion)
	imageService := newImageService(cfg, recipeService)

	engine := router.SetupRouter(router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Recipe:    api.NewRecipeHandler(recipeService, imageService),
		Profile:   api.NewProfileHandler(profileService),
		Meal:      api.NewMealHandler(mealService),
		Dashboard: api.NewDashboardHandler(mealService, recipeService),
		Assistant: api.NewAssistantHandler(assistantService),
		Tools:     api.NewToolsHandler(registry),
	}, authService, limiter)

	// Create and start server
	srv := server.New(cfg, engine)
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func newChatModel(cfg *config.Config) (llm.ChatModel, error) {
	if cfg.LLMProvider == "gollm" {
		return llm.NewGollmClient(cfg.GollmProvider, cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMTemperature, cfg.LLMMaxTokens)
	}
	return llm.NewChatCompletionClient(cfg.LLMAPIURL, cfg.LLMAPIKey,
		llm.WithModel(cfg.LLMModel),
		llm.WithTemperature(cfg.LLMTemperature),
		llm.WithMaxTokens(cfg.LLMMaxTokens),
	), nil
}

// newImageService returns nil when no bucket is configured.
func newImageService(cfg *config.Config, recipes *service.RecipeService) service.IImageService {
	if cfg.S3Bucket == "" {
		log.Println("S3_BUCKET_NAME not set, recipe photos disabled")
		return nil
	}
	store, err := config.NewS3Config(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
	if err != nil {
		log.Printf("Failed to initialize S3, recipe photos disabled: %v", err)
		return nil
	}
	return service.NewImageService(store, recipes)
}

func getMigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
