package service

import (
	"testing"
	"time"

	"github.com/ikkim/shopmall-backend/config"
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/internal/app/repository"
	"github.com/ikkim/shopmall-backend/internal/db"
	"github.com/ikkim/shopmall-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(userRepo, jwtCfg)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register(RegisterInput{
		Email:     "new@example.com",
		Password:  "password123",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleUser), claims.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email: "dup@example.com", Password: "password123", FirstName: "First",
	})
	require.NoError(t, err)

	_, _, err = authService.Register(RegisterInput{
		Email: "dup@example.com", Password: "password456", FirstName: "Second",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	registered, _, err := authService.Register(RegisterInput{
		Email: "login@example.com", Password: "password123", FirstName: "Login",
	})
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email: "login@example.com", Password: "password123", FirstName: "Login",
	})
	require.NoError(t, err)

	_, _, err = authService.Login("login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, tokens, err := authService.Register(RegisterInput{
		Email: "refresh@example.com", Password: "password123", FirstName: "Refresh",
	})
	require.NoError(t, err)

	fresh, err := authService.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, err := authService.Refresh("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, tokens, err := authService.Register(RegisterInput{
		Email: "logout@example.com", Password: "password123", FirstName: "Logout",
	})
	require.NoError(t, err)

	// Revocation degrades to a no-op when Redis is not configured
	require.NoError(t, authService.Logout(tokens.AccessToken, tokens.RefreshToken))

	_, err = authService.Refresh(tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register(RegisterInput{
		Email: "profile@example.com", Password: "password123", FirstName: "Before",
	})
	require.NoError(t, err)

	firstName := "After"
	phone := "0899999999"
	updated, err := authService.UpdateProfile(user.ID, UpdateProfileInput{
		FirstName: &firstName,
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.FirstName)
	assert.Equal(t, "0899999999", updated.Phone)
	assert.Equal(t, user.LastName, updated.LastName)
}
