package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dubon/internal/models"
	"dubon/internal/repositories"
	"dubon/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sellerRequestMocks struct {
	requests      *MockSellerRequestRepository
	sellers       *MockSellerRepository
	users         *MockUserRepository
	notifications *MockNotificationRepository
}

// newSellerRequestService runs without a broker, so events are stored as
// notifications directly.
func newSellerRequestService() (*services.SellerRequestService, sellerRequestMocks) {
	m := sellerRequestMocks{
		requests:      new(MockSellerRequestRepository),
		sellers:       new(MockSellerRepository),
		users:         new(MockUserRepository),
		notifications: new(MockNotificationRepository),
	}
	service := services.NewSellerRequestService(fakeTx{}, m.requests, m.sellers, m.users, nil, m.notifications, nil, nil, time.Minute)
	return service, m
}

func TestSellerRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	service, m := newSellerRequestService()

	// Test pending request already exists
	m.sellers.On("GetByUserID", mock.Anything, buyer.UserID).Return(nil, repositories.ErrNotFound)
	m.requests.On("HasPending", mock.Anything, buyer.UserID).Return(true, nil).Once()
	err := service.Submit(ctx, buyer.UserID, &models.SellerRequest{BusinessName: "Shop"})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// Test successful submission resets review fields
	m.requests.On("HasPending", mock.Anything, buyer.UserID).Return(false, nil).Once()
	m.requests.On("Create", mock.Anything, mock.AnythingOfType("*models.SellerRequest")).Return(nil).Once()
	req := &models.SellerRequest{BusinessName: "Shop", Status: models.RequestApproved, RejectReason: "x"}
	require.NoError(t, service.Submit(ctx, buyer.UserID, req))
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, buyer.UserID, req.UserID)
	assert.Empty(t, req.RejectReason)
	m.requests.AssertExpectations(t)
}

func TestSellerRequestService_SubmitWhenAlreadySeller(t *testing.T) {
	service, m := newSellerRequestService()
	m.sellers.On("GetByUserID", mock.Anything, seller.UserID).Return(activeSeller(), nil).Once()

	err := service.Submit(context.Background(), seller.UserID, &models.SellerRequest{})
	assert.ErrorIs(t, err, repositories.ErrConflict)
	m.requests.AssertNotCalled(t, "HasPending", mock.Anything, mock.Anything)
}

func TestSellerRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	service, m := newSellerRequestService()

	req := &models.SellerRequest{
		Base:         models.Base{ID: "req-1"},
		UserID:       buyer.UserID,
		BusinessName: "Awa Couture",
		Email:        "shop@example.com",
		Status:       models.RequestPending,
	}
	m.requests.On("GetByID", mock.Anything, "req-1").Return(req, nil).Once()
	m.requests.On("Review", mock.Anything, "req-1", models.RequestPending, models.RequestApproved, admin.UserID, "").Return(nil).Once()
	m.sellers.On("Create", mock.Anything, mock.MatchedBy(func(p *models.SellerProfile) bool {
		return p.UserID == buyer.UserID && p.BusinessName == "Awa Couture" && p.IsActive
	})).Return(nil).Once()
	m.users.On("UpdateRole", mock.Anything, buyer.UserID, models.RoleSeller).Return(nil).Once()
	m.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == buyer.UserID && n.Type == "seller_request.approved"
	})).Return(nil).Once()

	profile, err := service.Approve(ctx, admin, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", profile.Email)
	m.requests.AssertExpectations(t)
	m.sellers.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

func TestSellerRequestService_ApproveRejectedRequest(t *testing.T) {
	service, m := newSellerRequestService()
	m.requests.On("GetByID", mock.Anything, "req-1").Return(&models.SellerRequest{Base: models.Base{ID: "req-1"}, Status: models.RequestRejected}, nil).Once()

	_, err := service.Approve(context.Background(), admin, "req-1")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	m.sellers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSellerRequestService_RejectPublishes(t *testing.T) {
	ctx := context.Background()
	requests := new(MockSellerRequestRepository)
	publisher := new(MockPublisher)
	service := services.NewSellerRequestService(fakeTx{}, requests, new(MockSellerRepository), new(MockUserRepository), nil, nil, publisher, nil, time.Minute)

	pending := &models.SellerRequest{Base: models.Base{ID: "req-1"}, UserID: buyer.UserID, Status: models.RequestPending}
	requests.On("GetByID", mock.Anything, "req-1").Return(pending, nil).Once()
	requests.On("Review", mock.Anything, "req-1", models.RequestPending, models.RequestRejected, admin.UserID, "incomplet").Return(nil).Once()
	requests.On("GetByID", mock.Anything, "req-1").Return(&models.SellerRequest{Base: models.Base{ID: "req-1"}, Status: models.RequestRejected}, nil).Once()
	publisher.On("Publish", "seller_request.rejected", mock.Anything).Return(nil).Once()

	got, err := service.Reject(ctx, admin, "req-1", "incomplet")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, got.Status)

	var ev services.DomainEvent
	require.NoError(t, json.Unmarshal(publisher.Calls[0].Arguments.Get(1).([]byte), &ev))
	assert.Equal(t, buyer.UserID, ev.UserID)
	assert.Equal(t, "incomplet", ev.Message)
	requests.AssertExpectations(t)
}

func TestSellerRequestService_MineIsCachedPerUser(t *testing.T) {
	ctx := context.Background()
	requests := new(MockSellerRequestRepository)
	cache := new(MockCache)
	service := services.NewSellerRequestService(fakeTx{}, requests, new(MockSellerRepository), new(MockUserRepository), nil, nil, nil, cache, time.Minute)

	req := &models.SellerRequest{Base: models.Base{ID: "req-1"}, UserID: buyer.UserID, Status: models.RequestPending}
	cache.On("Get", "seller_request:user:"+buyer.UserID, mock.Anything).Return(false, nil).Once()
	requests.On("LatestByUser", mock.Anything, buyer.UserID).Return(req, nil).Once()
	cache.On("Set", "seller_request:user:"+buyer.UserID, req, time.Minute).Return(nil).Once()

	got, err := service.Mine(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.ID)

	// A hit skips the database.
	cache.On("Get", "seller_request:user:"+buyer.UserID, mock.Anything).Return(true, nil).Once()
	_, err = service.Mine(ctx, buyer.UserID)
	require.NoError(t, err)
	requests.AssertNumberOfCalls(t, "LatestByUser", 1)
	cache.AssertExpectations(t)
}
