package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dubon/internal/models"
	"dubon/internal/repositories"
	"dubon/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	// Test weak password
	err := authService.RegisterUser(ctx, &models.User{Email: "test@example.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Test successful registration
	user := &models.User{Name: "Test", Email: "test@example.com", Password: "Passw0rd!"}
	mockRepo.On("GetByEmail", mock.Anything, user.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err = authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Passw0rd!")))
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{Base: models.Base{ID: "1"}}, nil).Once()
	err = authService.RegisterUser(ctx, &models.User{Email: "taken@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.Contains(t, err.Error(), "email 'taken@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{Name: "Ama", Email: "  Ama@Dubon.Test ", Password: "Passw0rd!"}
	mockRepo.On("GetByEmail", mock.Anything, "ama@dubon.test").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ama@dubon.test"
	})).Return(nil).Once()
	require.NoError(t, authService.RegisterUser(ctx, user))

	// A second account differing only in case is a duplicate.
	mockRepo.On("GetByEmail", mock.Anything, "ama@dubon.test").Return(user, nil).Twice()
	err := authService.RegisterUser(ctx, &models.User{Email: "AMA@dubon.test", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	_, loggedIn, err := authService.LoginUser(ctx, "AMA@DUBON.TEST", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "ama@dubon.test", loggedIn.Email)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	user := &models.User{
		Base:     models.Base{ID: "user-123"},
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleSeller,
	}

	// Test successful login
	mockRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, user.Email, "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, models.RoleSeller, claims["role"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, user.Email, "Wr0ngpass!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.LoginUser(ctx, "nobody@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	// Test valid token
	validTokenString, err := authService.IssueToken(&models.User{
		Base:  models.Base{ID: "user-123"},
		Email: "test@example.com",
		Role:  models.RoleUser,
	})
	require.NoError(t, err)
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, models.RoleUser, claims["role"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	// Test token signed with another secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	foreignTokenString, _ := foreignToken.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(foreignTokenString)
	assert.Error(t, err)

	// Test token without subject
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	anonymousString, _ := anonymous.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(anonymousString)
	assert.Error(t, err)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	// Nothing configured
	assert.NoError(t, authService.EnsureAdmin(ctx, "", ""))

	mockRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleAdmin && u.Email == "admin@example.com"
	})).Return(nil).Once()
	assert.NoError(t, authService.EnsureAdmin(ctx, "admin@example.com", "Adm1n!pass"))

	// Existing admin is left untouched
	mockRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(&models.User{Role: models.RoleAdmin}, nil).Once()
	assert.NoError(t, authService.EnsureAdmin(ctx, "admin@example.com", "Adm1n!pass"))
	mockRepo.AssertExpectations(t)
}
