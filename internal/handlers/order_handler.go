package handlers

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers the order routes; all of them need a signed-in account.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, gate *middleware.Gate) {
	orders := router.Group("/orders", gate.Authenticate())
	orders.Post("/", h.CreateOrder)
	orders.Get("/", h.GetMyOrders)
	orders.Get("/:id", h.GetOrderByID)
}

// CreateOrderRequest is the body of POST /api/orders. OrderItems is a pointer
// so an omitted field can be told apart from an empty list.
type CreateOrderRequest struct {
	OrderItems      *[]models.OrderItem    `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	TotalPrice      float64                `json:"totalPrice"`
}

// CreateOrder places an order for the current account.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return respondError(c, apperror.ErrUnauthenticated, "Not authorized, no token")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.orderService.CreateOrder(c.UserContext(), account.ID, req.OrderItems, req.ShippingAddress, req.TotalPrice)
	if err != nil {
		return respondError(c, err, "Error creating order.")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetMyOrders lists the current account's orders.
func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return respondError(c, apperror.ErrUnauthenticated, "Not authorized, no token")
	}

	orders, err := h.orderService.ListOrdersForAccount(c.UserContext(), account.ID)
	if err != nil {
		return respondError(c, err, "Error loading orders.")
	}
	return c.JSON(orders)
}

// GetOrderByID returns one order owned by the current account, or any order to an admin.
func (h *OrderHandler) GetOrderByID(c *fiber.Ctx) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return respondError(c, apperror.ErrUnauthenticated, "Not authorized, no token")
	}

	order, err := h.orderService.GetOrder(c.UserContext(), c.Params("id"), account)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return respondError(c, err, "Order not found")
		}
		return respondError(c, err, "Error loading order.")
	}
	return c.JSON(order)
}
