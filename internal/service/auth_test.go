package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriplan/backend/internal/service"
	"github.com/nutriplan/backend/internal/testhelpers"
	"github.com/nutriplan/backend/internal/types"
)

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Test User", " Test@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = svc.Register(ctx, "Again", "test@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Test User", "test@example.com", "password123")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "TEST@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	found, err := svc.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", found.Name)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Test User", "test@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "test@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := service.NewAuthService(nil, "test-secret")
	userID := uuid.New()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           userID,
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	otherSecret, err := service.NewAuthService(nil, "other-secret").GenerateToken(userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: userID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "invalid.token",
		"expired":      expiredToken,
		"other secret": otherSecret,
		"alg none":     noneToken,
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
