package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/testhelpers"
	"github.com/nutriplan/backend/internal/testhelpers/mocks"
	"github.com/nutriplan/backend/internal/testingutils"
)

func setupRecipeRouter(t *testing.T, userID uuid.UUID, images service.IImageService) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	recipes := service.NewRecipeService(db, service.NewEmbeddingService())

	router := testingutils.SetupTestRouter()
	NewRecipeHandler(recipes, images).RegisterRoutes(router.Group("/api/v1", testingutils.AsUser(userID)))
	return router, db
}

func validRecipeBody() map[string]interface{} {
	return map[string]interface{}{
		"name": "Chicken Rice",
		"ingredients": []map[string]interface{}{
			{"name": "chicken", "weight": 150, "protein": 46.5, "fat": 5.4, "carbohydrates": 0, "calories": 247.5},
			{"name": "rice", "weight": 200, "protein": 5.4, "fat": 0.6, "carbohydrates": 56, "calories": 260},
		},
		"instructions": "Poach the chicken, cook the rice in the stock.",
		"prep_time":    40,
	}
}

func TestCreateRecipe(t *testing.T) {
	userID := uuid.New()
	router, _ := setupRecipeRouter(t, userID, nil)

	w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", validRecipeBody(), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	testingutils.DecodeJSON(t, w, &recipe)
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, userID, recipe.UserID)
	assert.Equal(t, "Chicken Rice", recipe.Name)
	require.NotNil(t, recipe.PrepTime)
	assert.Equal(t, 40, *recipe.PrepTime)
	assert.InDelta(t, 51.9, recipe.Nutrition.Protein, 0.001)
	assert.InDelta(t, 6.0, recipe.Nutrition.Fat, 0.001)
	assert.InDelta(t, 56.0, recipe.Nutrition.Carbohydrates, 0.001)
	assert.InDelta(t, 507.5, recipe.Nutrition.Calories, 0.001)
}

func TestCreateRecipeAcceptsCamelCasePrepTime(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)
	body := validRecipeBody()
	delete(body, "prep_time")
	body["prepTime"] = 25

	w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var raw map[string]interface{}
	testingutils.DecodeJSON(t, w, &raw)
	assert.Equal(t, float64(25), raw["prep_time"])
	assert.NotContains(t, raw, "prepTime")
}

func TestCreateRecipeMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }},
		{"blank name", func(b map[string]interface{}) { b["name"] = "   " }},
		{"missing ingredients", func(b map[string]interface{}) { delete(b, "ingredients") }},
		{"empty ingredients", func(b map[string]interface{}) { b["ingredients"] = []interface{}{} }},
		{"missing instructions", func(b map[string]interface{}) { delete(b, "instructions") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, db := setupRecipeRouter(t, uuid.New(), nil)
			body := validRecipeBody()
			tt.mutate(body)

			w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", body, "")
			testingutils.AssertErrorBody(t, w, http.StatusBadRequest, "Missing required fields")

			var count int64
			require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestCreateRecipeMalformedJSON(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)

	w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", `{"name":`, "")
	testingutils.AssertErrorBody(t, w, http.StatusBadRequest, "Missing required fields")
}

func TestListRecipesNewestFirstAndScoped(t *testing.T) {
	userID := uuid.New()
	router, db := setupRecipeRouter(t, userID, nil)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		body := validRecipeBody()
		body["name"] = name
		w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", body, "")
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, db.Model(&models.Recipe{}).Where("name = ?", name).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	// Another user's recipe must not show up
	other := &models.Recipe{
		UserID:       uuid.New(),
		Name:         "Not Mine",
		Ingredients:  models.IngredientList{{Name: "egg", Weight: 50, Calories: 70}},
		Instructions: "Boil.",
	}
	require.NoError(t, db.Create(other).Error)

	w := testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var recipes []models.Recipe
	testingutils.DecodeJSON(t, w, &recipes)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Newest", recipes[0].Name)
	assert.Equal(t, "Middle", recipes[1].Name)
	assert.Equal(t, "Oldest", recipes[2].Name)
	assert.InDelta(t, 507.5, recipes[0].Nutrition.Calories, 0.001)
}

func TestListRecipesEmptyIsArray(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)

	w := testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListRecipesSearch(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)
	for _, name := range []string{"Chicken Rice", "Beef Stew"} {
		body := validRecipeBody()
		body["name"] = name
		require.Equal(t, http.StatusCreated, testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", body, "").Code)
	}

	w := testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes?q=stew", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var recipes []models.Recipe
	testingutils.DecodeJSON(t, w, &recipes)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Beef Stew", recipes[0].Name)
}

func TestListRecipesFailure(t *testing.T) {
	userID := uuid.New()
	recipes := new(mocks.MockRecipeService)
	recipes.On("ListRecipes", mock.Anything, userID, "").Return(nil, errors.New("connection reset"))

	router := testingutils.SetupTestRouter()
	NewRecipeHandler(recipes, nil).RegisterRoutes(router.Group("/api/v1", testingutils.AsUser(userID)))

	w := testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch recipes","details":"connection reset"}`, w.Body.String())
}

func TestGetAndDeleteRecipeOwnerOnly(t *testing.T) {
	owner := uuid.New()
	router, db := setupRecipeRouter(t, owner, nil)

	w := testingutils.PerformRequest(router, http.MethodPost, "/api/v1/recipes", validRecipeBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Recipe
	testingutils.DecodeJSON(t, w, &created)

	w = testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Same database, different caller
	strangerRouter := testingutils.SetupTestRouter()
	NewRecipeHandler(service.NewRecipeService(db, service.NewEmbeddingService()), nil).
		RegisterRoutes(strangerRouter.Group("/api/v1", testingutils.AsUser(uuid.New())))

	w = testingutils.PerformRequest(strangerRouter, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	testingutils.AssertErrorBody(t, w, http.StatusNotFound, "Recipe not found")
	w = testingutils.PerformRequest(strangerRouter, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), nil, "")
	testingutils.AssertErrorBody(t, w, http.StatusNotFound, "Recipe not found")

	w = testingutils.PerformRequest(router, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeInvalidID(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)

	w := testingutils.PerformRequest(router, http.MethodGet, "/api/v1/recipes/not-a-uuid", nil, "")
	testingutils.AssertErrorBody(t, w, http.StatusBadRequest, "Invalid id")
}

func multipartImage(t *testing.T, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="dish.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadRecipeImage(t *testing.T) {
	userID := uuid.New()
	recipeID := uuid.New()
	images := new(mocks.MockImageService)
	images.On("UploadRecipeImage", mock.Anything, userID, recipeID, "image/png", mock.Anything).
		Return(&models.Recipe{ID: recipeID, UserID: userID, Name: "Dish", ImageKey: "recipes/dish.png"}, nil)
	images.On("AttachImageURL", mock.Anything, mock.Anything).Return(nil)

	router := testingutils.SetupTestRouter()
	NewRecipeHandler(new(mocks.MockRecipeService), images).RegisterRoutes(router.Group("/api/v1", testingutils.AsUser(userID)))

	body, contentType := multipartImage(t, "image/png")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/"+recipeID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var recipe models.Recipe
	testingutils.DecodeJSON(t, w, &recipe)
	assert.Equal(t, "https://images.example.com/recipes/dish.png", recipe.ImageURL)
	images.AssertExpectations(t)
}

func TestUploadRecipeImageWithoutStorage(t *testing.T) {
	router, _ := setupRecipeRouter(t, uuid.New(), nil)

	body, contentType := multipartImage(t, "image/png")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/"+uuid.NewString()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	testingutils.AssertErrorBody(t, w, http.StatusServiceUnavailable, "Image storage is not configured")
}
