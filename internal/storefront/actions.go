package storefront

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// ShippingAddress is where every checkout ships to.
var ShippingAddress = models.ShippingAddress{
	Address:    "123 Test Street",
	City:       "AgriTown",
	PostalCode: "12345",
	Country:    "PH",
}

// Catalog is the read side of the API used by Refresh.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Authenticator signs accounts in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
}

// OrderPlacer submits orders.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, req OrderRequest) (models.Order, error)
}

// CatalogAdmin is the admin side of the API.
type CatalogAdmin interface {
	Catalog
	CreateProduct(ctx context.Context, token string, product models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
}

// Refresh refetches the full product list.
func Refresh(ctx context.Context, api Catalog, s State) (State, error) {
	products, err := api.Products(ctx)
	if err != nil {
		return s, fmt.Errorf("error loading products: %w", err)
	}
	return s.WithProducts(products), nil
}

// SignIn logs in and moves the state to authenticated. The state is
// unchanged when login fails.
func SignIn(ctx context.Context, api Authenticator, s State, email, password string) (State, error) {
	session, err := api.Login(ctx, email, password)
	if err != nil {
		return s, err
	}
	return s.Login(session), nil
}

// Checkout submits the cart as an order. The cart is emptied only when the
// order was accepted; on any failure the returned state still holds it.
func Checkout(ctx context.Context, api OrderPlacer, s State) (State, models.Order, error) {
	if len(s.Cart) == 0 {
		return s, models.Order{}, ErrEmptyCart
	}
	if !s.Authenticated() {
		return s, models.Order{}, ErrNotAuthenticated
	}

	req := OrderRequest{
		OrderItems:      make([]models.OrderItem, 0, len(s.Cart)),
		ShippingAddress: ShippingAddress,
		TotalPrice:      s.Total(),
	}
	for _, l := range s.Cart {
		req.OrderItems = append(req.OrderItems, models.OrderItem{
			Product: l.Product.ID,
			Name:    l.Product.Name,
			Qty:     l.Quantity,
			Price:   l.Product.Price,
			Image:   l.Product.Image,
		})
	}

	order, err := api.PlaceOrder(ctx, s.Token, req)
	if err != nil {
		return s, models.Order{}, fmt.Errorf("checkout failed: %w", err)
	}
	return s.ClearCart(), order, nil
}

// SaveProduct creates the product when it has no id and updates it
// otherwise, then refreshes the product list.
func SaveProduct(ctx context.Context, api CatalogAdmin, s State, product models.Product) (State, error) {
	var err error
	if product.ID == "" {
		_, err = api.CreateProduct(ctx, s.Token, product)
	} else {
		_, err = api.UpdateProduct(ctx, s.Token, product.ID, patchFrom(product))
	}
	if err != nil {
		return s, fmt.Errorf("operation failed: %w", err)
	}
	return Refresh(ctx, api, s)
}

// DeleteProduct removes a product and refreshes the product list.
func DeleteProduct(ctx context.Context, api CatalogAdmin, s State, id string) (State, error) {
	if err := api.DeleteProduct(ctx, s.Token, id); err != nil {
		return s, fmt.Errorf("failed to delete product: %w", err)
	}
	return Refresh(ctx, api, s)
}

// patchFrom sends every field of the edit form.
func patchFrom(p models.Product) models.ProductPatch {
	return models.ProductPatch{
		Name:        &p.Name,
		Price:       &p.Price,
		Stock:       &p.Stock,
		Description: &p.Description,
		Image:       &p.Image,
		Category:    &p.Category,
	}
}
