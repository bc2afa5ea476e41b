package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// OrderEventPublisher receives an event for every stored order.
type OrderEventPublisher interface {
	PublishOrderCreated(event models.OrderCreatedEvent) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher OrderEventPublisher
	validate  *validator.Validate
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are emitted.
func NewOrderService(orderRepo repositories.OrderRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// CreateOrder stores an order owned by accountID. A nil items slice means the
// caller sent no items field and is accepted; an explicitly empty list is
// ErrEmptyCart. The submitted total is stored as given and stock is not
// touched.
func (s *OrderService) CreateOrder(ctx context.Context, accountID string, items *[]models.OrderItem, address models.ShippingAddress, totalPrice float64) (*models.Order, error) {
	if items != nil && len(*items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	order := &models.Order{
		UserID:          accountID,
		ShippingAddress: address,
		TotalPrice:      totalPrice,
		OrderItems:      []models.OrderItem{},
	}
	if items != nil {
		order.OrderItems = make([]models.OrderItem, len(*items))
		for i, item := range *items {
			if err := s.validate.Struct(item); err != nil {
				return nil, fmt.Errorf("order item %d: %w", i, validationError(err))
			}
			item.ID = 0
			item.OrderID = ""
			order.OrderItems[i] = item
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w: %w", apperror.ErrStoreFailure, err)
	}
	metrics.RecordOrderCreated(len(order.OrderItems))
	log.WithFields(log.Fields{"order_id": order.ID, "user_id": accountID}).Info("Order created")

	s.publishCreated(order)
	return order, nil
}

// ListOrdersForAccount returns the orders owned by accountID.
func (s *OrderService) ListOrdersForAccount(ctx context.Context, accountID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrder returns an order visible to account: its owner or any admin.
// Orders of other accounts are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, id string, account models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if order.UserID != account.ID && !account.IsAdmin {
		return nil, fmt.Errorf("order with ID %s: %w", id, apperror.ErrNotFound)
	}
	return order, nil
}

// publishCreated emits order.created. Failures are logged and never reach the caller.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := models.OrderCreatedEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		ItemCount:  len(order.OrderItems),
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		metrics.RecordOrderEvent(false)
		log.WithError(err).WithField("order_id", order.ID).Warn("Failed to publish order created event")
		return
	}
	metrics.RecordOrderEvent(true)
	log.WithField("order_id", order.ID).Debug("Published order created event")
}
