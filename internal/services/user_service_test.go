package services_test

import (
	"context"
	"testing"

	"dubon/internal/models"
	"dubon/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("delivery role", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewUserService(users)
		users.On("GetByID", mock.Anything, "user-1").Return(&models.User{Base: models.Base{ID: "user-1"}, Role: models.RoleUser}, nil).Once()
		users.On("UpdateRole", mock.Anything, "user-1", models.RoleDelivery).Return(nil).Once()
		users.On("GetByID", mock.Anything, "user-1").Return(&models.User{Base: models.Base{ID: "user-1"}, Role: models.RoleDelivery}, nil).Once()

		user, err := service.UpdateRole(ctx, "user-1", models.RoleDelivery)
		require.NoError(t, err)
		assert.Equal(t, models.RoleDelivery, user.Role)
		users.AssertExpectations(t)
	})

	t.Run("seller role is granted by approval only", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewUserService(users)

		_, err := service.UpdateRole(ctx, "user-1", models.RoleSeller)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_DeleteSelf(t *testing.T) {
	users := new(MockUserRepository)
	service := services.NewUserService(users)

	err := service.Delete(context.Background(), admin, admin.UserID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile(t *testing.T) {
	users := new(MockUserRepository)
	service := services.NewUserService(users)
	users.On("GetByID", mock.Anything, "user-1").Return(&models.User{Base: models.Base{ID: "user-1"}, Name: "Ama"}, nil).Once()
	users.On("UpdateProfile", mock.Anything, "user-1", "Ama K.", "+22990000000").Return(nil).Once()
	users.On("GetByID", mock.Anything, "user-1").Return(&models.User{Base: models.Base{ID: "user-1"}, Name: "Ama K.", Phone: "+22990000000"}, nil).Once()

	user, err := service.UpdateProfile(context.Background(), "user-1", "Ama K.", "+22990000000")
	require.NoError(t, err)
	assert.Equal(t, "Ama K.", user.Name)
	users.AssertExpectations(t)
}
