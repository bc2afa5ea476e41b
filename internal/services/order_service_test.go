package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testAddress = models.ShippingAddress{Address: "123 Test Street", City: "AgriTown", PostalCode: "12345", Country: "PH"}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(mockRepo, publisher)

	items := []models.OrderItem{{Product: "p1", Name: "Widget", Qty: 2, Price: 1.5}}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.UserID == "user-1" && len(o.OrderItems) == 1 && o.TotalPrice == 3.0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = "order-1"
	}).Return(nil).Once()
	publisher.On("PublishOrderCreated", mock.MatchedBy(func(e models.OrderCreatedEvent) bool {
		return e.OrderID == "order-1" && e.UserID == "user-1" && e.ItemCount == 1 && e.TotalPrice == 3.0
	})).Return(nil).Once()

	order, err := orderService.CreateOrder(ctx, "user-1", &items, testAddress, 3.0)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, testAddress, order.ShippingAddress)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_EmptyVersusAbsentItems(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(mockRepo, nil)

	empty := []models.OrderItem{}
	_, err := orderService.CreateOrder(ctx, "user-1", &empty, testAddress, 0)
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	order, err := orderService.CreateOrder(ctx, "user-1", nil, testAddress, 0)
	require.NoError(t, err)
	assert.Empty(t, order.OrderItems)
}

func TestOrderService_CreateOrder_InvalidItem(t *testing.T) {
	ctx := context.Background()
	orderService := services.NewOrderService(new(MockOrderRepository), nil)

	for name, item := range map[string]models.OrderItem{
		"missing product": {Qty: 1, Price: 1},
		"zero qty":        {Product: "p1", Qty: 0, Price: 1},
		"negative price":  {Product: "p1", Qty: 1, Price: -1},
	} {
		t.Run(name, func(t *testing.T) {
			items := []models.OrderItem{item}
			_, err := orderService.CreateOrder(ctx, "user-1", &items, testAddress, 1)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}

func TestOrderService_CreateOrder_PublishFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(mockRepo, publisher)

	items := []models.OrderItem{{Product: "p1", Qty: 1, Price: 1}}
	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	publisher.On("PublishOrderCreated", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := orderService.CreateOrder(ctx, "user-1", &items, testAddress, 1)
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_StoreFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(mockRepo, publisher)

	items := []models.OrderItem{{Product: "p1", Qty: 1, Price: 1}}
	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("write conflict")).Once()

	_, err := orderService.CreateOrder(ctx, "user-1", &items, testAddress, 1)
	assert.ErrorIs(t, err, apperror.ErrStoreFailure)
	publisher.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderService_GetOrder_Visibility(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(mockRepo, nil)

	mockRepo.On("GetByID", ctx, "order-1").Return(&models.Order{ID: "order-1", UserID: "owner"}, nil)
	mockRepo.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound)

	_, err := orderService.GetOrder(ctx, "order-1", models.User{ID: "owner"})
	assert.NoError(t, err)

	_, err = orderService.GetOrder(ctx, "order-1", models.User{ID: "admin", IsAdmin: true})
	assert.NoError(t, err)

	_, err = orderService.GetOrder(ctx, "order-1", models.User{ID: "stranger"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = orderService.GetOrder(ctx, "missing", models.User{ID: "owner"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestOrderService_ListOrdersForAccount(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(mockRepo, nil)

	mockRepo.On("GetByUser", ctx, "owner").Return([]models.Order{{ID: "o1", UserID: "owner"}}, nil).Once()
	orders, err := orderService.ListOrdersForAccount(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
