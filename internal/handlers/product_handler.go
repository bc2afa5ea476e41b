package handlers

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes. Reads are public, mutations
// need an administrator.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, gate *middleware.Gate) {
	products := router.Group("/products")
	products.Get("/", h.GetAllProducts)
	products.Get("/:id", h.GetProductByID)
	products.Post("/", gate.Authenticate(), gate.RequireAdmin(), h.CreateProduct)
	products.Put("/:id", gate.Authenticate(), gate.RequireAdmin(), h.UpdateProduct)
	products.Delete("/:id", gate.Authenticate(), gate.RequireAdmin(), h.DeleteProduct)
}

// GetAllProducts lists the catalog.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products, err := h.productService.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, err, "Error loading products.")
	}
	return c.JSON(products)
}

// GetProductByID returns a single product.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return respondError(c, err, "Product not found")
		}
		return respondError(c, err, "Error loading product.")
	}
	return c.JSON(product)
}

// CreateProduct adds a product to the catalog.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}

	created, err := h.productService.CreateProduct(c.UserContext(), &product)
	if err != nil {
		return respondError(c, err, "Failed to create product.")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct applies a partial update to a product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, err)
	}

	updated, err := h.productService.UpdateProduct(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return respondError(c, err, "Product not found")
		}
		return respondError(c, err, "Failed to update product.")
	}
	return c.JSON(updated)
}

// DeleteProduct removes a product. Unknown ids are not an error.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete product.")
	}
	return c.JSON(fiber.Map{"message": "Product successfully deleted"})
}
