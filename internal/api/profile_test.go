package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/testhelpers"
	"github.com/nutriplan/backend/internal/testhelpers/mocks"
	"github.com/nutriplan/backend/internal/testingutils"
	"github.com/nutriplan/backend/internal/types"
)

func profileRouter(profiles service.IProfileService, userID uuid.UUID) *gin.Engine {
	router := testingutils.SetupTestRouter()
	NewProfileHandler(profiles).RegisterRoutes(router.Group("/api/v1", testingutils.AsUser(userID)))
	return router
}

func TestGetUserData(t *testing.T) {
	userID := uuid.New()
	profiles := new(mocks.MockProfileService)
	profiles.On("GetProfile", mock.Anything, userID).Return(&models.UserProfile{
		UserID:         userID,
		TargetCalories: 1800,
		Goal:           "lose",
		Age:            30,
		Gender:         "female",
		Height:         165,
		Weight:         60,
	}, nil)

	w := testingutils.PerformRequest(profileRouter(profiles, userID), http.MethodGet, "/api/v1/user-data", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"target_calories":1800,"goal":"lose","age":30,"gender":"female","height":165,"weight":60}`, w.Body.String())
	profiles.AssertExpectations(t)
}

func TestGetUserDataNotFound(t *testing.T) {
	userID := uuid.New()
	profiles := new(mocks.MockProfileService)
	profiles.On("GetProfile", mock.Anything, userID).Return(nil, service.ErrProfileNotFound)

	w := testingutils.PerformRequest(profileRouter(profiles, userID), http.MethodGet, "/api/v1/user-data", nil, "")
	testingutils.AssertErrorBody(t, w, http.StatusNotFound, "User data not found")
}

func TestGetUserDataFailure(t *testing.T) {
	userID := uuid.New()
	profiles := new(mocks.MockProfileService)
	profiles.On("GetProfile", mock.Anything, userID).Return(nil, errors.New("db down"))

	w := testingutils.PerformRequest(profileRouter(profiles, userID), http.MethodGet, "/api/v1/user-data", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch user data","details":"db down"}`, w.Body.String())
}

func TestUpdateUserDataComputesTarget(t *testing.T) {
	userID := uuid.New()
	db := testhelpers.SetupTestDatabase(t)
	router := profileRouter(service.NewProfileService(db), userID)

	body := map[string]interface{}{"goal": "maintain", "age": 30, "gender": "male", "height": 180, "weight": 80}
	w := testingutils.PerformRequest(router, http.MethodPut, "/api/v1/user-data", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data types.UserData
	testingutils.DecodeJSON(t, w, &data)
	// (10*80 + 6.25*180 - 5*30 + 5) * 1.2
	assert.Equal(t, 2136, data.TargetCalories)

	w = testingutils.PerformRequest(router, http.MethodPut, "/api/v1/user-data", map[string]interface{}{"target_calories": 2000}, "")
	require.Equal(t, http.StatusOK, w.Code)
	testingutils.DecodeJSON(t, w, &data)
	assert.Equal(t, 2000, data.TargetCalories)
	assert.Equal(t, "maintain", data.Goal)
}

func TestUpdateUserDataRejectsIncompleteProfile(t *testing.T) {
	userID := uuid.New()
	db := testhelpers.SetupTestDatabase(t)

	w := testingutils.PerformRequest(profileRouter(service.NewProfileService(db), userID), http.MethodPut, "/api/v1/user-data", map[string]interface{}{"goal": "lose"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
