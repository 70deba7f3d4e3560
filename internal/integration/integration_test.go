package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/api"
	"github.com/nutriplan/backend/internal/llm"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/router"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/testhelpers"
	"github.com/nutriplan/backend/internal/testingutils"
	"github.com/nutriplan/backend/internal/tools"
	"github.com/nutriplan/backend/internal/types"
)

// scriptedModel answers chat requests from a queue and records them.
type scriptedModel struct {
	mu        sync.Mutex
	responses []*llm.ChatResponse
	requests  []llm.ChatRequest
}

func (m *scriptedModel) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return &llm.ChatResponse{Content: "Anything else?"}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func newSpoonacular(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/complexSearch" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"results":[{"id":7,"title":"Hainanese Chicken Rice","readyInMinutes":45,
			"nutrition":{"nutrients":[{"name":"Calories","amount":600}]}}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func setupApp(t *testing.T, model llm.ChatModel) http.Handler {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	spoon := newSpoonacular(t)

	registry := tools.NewDefaultRegistry(tools.Config{
		SpoonacularURL:    spoon.URL,
		SpoonacularAPIKey: "spoon-key",
		GoogleSearchURL:   spoon.URL,
		Region:            "Singapore",
	})

	authService := service.NewAuthService(db, "integration-secret")
	profileService := service.NewProfileService(db)
	recipeService := service.NewRecipeService(db, service.NewEmbeddingService())
	mealService := service.NewMealService(db, recipeService, profileService)
	assistantService := service.NewAssistantService(model, registry, service.NewMemorySessionStore(), profileService, mealService, "Singapore")

	return router.SetupRouter(router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Recipe:    api.NewRecipeHandler(recipeService, nil),
		Profile:   api.NewProfileHandler(profileService),
		Meal:      api.NewMealHandler(mealService),
		Dashboard: api.NewDashboardHandler(mealService, recipeService),
		Assistant: api.NewAssistantHandler(assistantService),
		Tools:     api.NewToolsHandler(registry),
	}, authService, nil)
}

func register(t *testing.T, app http.Handler, email string) string {
	t.Helper()
	w := testingutils.PerformRequest(app, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"name": "Mei", "email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.AuthResponse
	testingutils.DecodeJSON(t, w, &resp)
	return resp.Token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t, &scriptedModel{})

	w := testingutils.PerformRequest(app, http.MethodGet, "/api/v1/recipes", nil, "")
	testingutils.AssertErrorBody(t, w, http.StatusUnauthorized, "Missing auth token")

	w = testingutils.PerformRequest(app, http.MethodGet, "/api/v1/recipes", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipesAreScopedPerUser(t *testing.T) {
	app := setupApp(t, &scriptedModel{})
	alice := register(t, app, "alice@example.com")
	bob := register(t, app, "bob@example.com")

	body := map[string]interface{}{
		"name":         "Tofu Bowl",
		"ingredients":  []map[string]interface{}{{"name": "tofu", "weight": 150, "protein": 12, "fat": 7, "carbohydrates": 3, "calories": 120}},
		"instructions": "Pan fry the tofu.",
	}
	w := testingutils.PerformRequest(app, http.MethodPost, "/api/v1/recipes", body, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testingutils.PerformRequest(app, http.MethodGet, "/api/v1/recipes", nil, alice)
	var recipes []models.Recipe
	testingutils.DecodeJSON(t, w, &recipes)
	assert.Len(t, recipes, 1)

	w = testingutils.PerformRequest(app, http.MethodGet, "/api/v1/recipes", nil, bob)
	testingutils.DecodeJSON(t, w, &recipes)
	assert.Empty(t, recipes)
}

func TestAssistantConversation(t *testing.T) {
	model := &scriptedModel{responses: []*llm.ChatResponse{
		{Content: "Do you want to cook or eat out today?"},
		{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "ComplexRecipeSearch", Arguments: `{"input":"chicken rice"}`}}},
		{Content: "Hainanese Chicken Rice fits your budget at 600 kcal."},
	}}
	app := setupApp(t, model)
	token := register(t, app, "mei@example.com")

	// No profile yet
	w := testingutils.PerformRequest(app, http.MethodPost, "/api/v1/assistant/sessions", nil, token)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = testingutils.PerformRequest(app, http.MethodPut, "/api/v1/user-data", map[string]interface{}{"target_calories": 1800, "goal": "lose"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testingutils.PerformRequest(app, http.MethodPost, "/api/v1/meals", map[string]interface{}{"name": "Breakfast", "calories": 400}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = testingutils.PerformRequest(app, http.MethodPost, "/api/v1/assistant/sessions", nil, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var session service.Session
	testingutils.DecodeJSON(t, w, &session)
	require.Len(t, session.History, 1)
	assert.Equal(t, service.Greeting(1800), session.History[0].Content)

	path := "/api/v1/assistant/sessions/" + session.ID + "/messages"

	w = testingutils.PerformRequest(app, http.MethodPost, path, map[string]string{"message": "Hi"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply service.Reply
	testingutils.DecodeJSON(t, w, &reply)
	assert.Equal(t, "Do you want to cook or eat out today?", reply.Answer)
	assert.Len(t, reply.Session.History, 3)

	w = testingutils.PerformRequest(app, http.MethodPost, path, map[string]string{"message": "Cook, something with chicken rice"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testingutils.DecodeJSON(t, w, &reply)
	assert.Equal(t, "Hainanese Chicken Rice fits your budget at 600 kcal.", reply.Answer)
	require.Len(t, reply.ToolResults, 1)
	assert.Contains(t, reply.ToolResults[0].Content, "Hainanese Chicken Rice")
	assert.Len(t, reply.Session.History, 5)

	require.Len(t, model.requests, 3)
	system := model.requests[1].Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "1400 calories left")
	assert.NotEmpty(t, model.requests[1].Tools)
	assert.Empty(t, model.requests[2].Tools)
	last := model.requests[2].Messages[len(model.requests[2].Messages)-1]
	assert.True(t, strings.HasPrefix(last.Content, "Based on these tool results, provide a summary and recommendation for the user:\n"))

	w = testingutils.PerformRequest(app, http.MethodGet, "/api/v1/assistant/sessions/"+session.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	testingutils.DecodeJSON(t, w, &session)
	assert.Len(t, session.History, 5)

	// Someone else cannot read the conversation
	other := register(t, app, "other@example.com")
	w = testingutils.PerformRequest(app, http.MethodGet, "/api/v1/assistant/sessions/"+session.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDirectToolCall(t *testing.T) {
	app := setupApp(t, &scriptedModel{})
	token := register(t, app, "tools@example.com")

	w := testingutils.PerformRequest(app, http.MethodPost, "/api/v1/assistant/tools/call",
		`{"name":"ComplexRecipeSearch","arguments":{"input":"chicken"}}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Hainanese Chicken Rice")
}
