package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/models"
)

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// Session is the result of a successful login or registration.
type Session struct {
	Account models.User
	Token   string
}

// OrderRequest is the body of a checkout.
type OrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	TotalPrice      float64                `json:"totalPrice"`
}

// API is an HTTP client for the storefront REST API.
type API struct {
	baseURL string
	client  *http.Client
}

// NewAPI returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api". A nil client gets a 15 second timeout.
func NewAPI(baseURL string, client *http.Client) *API {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type sessionResponse struct {
	models.User
	Token string `json:"token"`
}

// Login exchanges credentials for a token.
func (a *API) Login(ctx context.Context, email, password string) (Session, error) {
	var resp sessionResponse
	err := a.do(ctx, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Account: resp.User, Token: resp.Token}, nil
}

// Register creates an account and returns its session.
func (a *API) Register(ctx context.Context, name, email, password string) (Session, error) {
	var resp sessionResponse
	err := a.do(ctx, http.MethodPost, "/users", "", map[string]string{"name": name, "email": email, "password": password}, &resp)
	if err != nil {
		return Session{}, err
	}
	return Session{Account: resp.User, Token: resp.Token}, nil
}

// Products fetches the whole catalog.
func (a *API) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := a.do(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product. Requires an admin token.
func (a *API) CreateProduct(ctx context.Context, token string, product models.Product) (models.Product, error) {
	var created models.Product
	err := a.do(ctx, http.MethodPost, "/products", token, product, &created)
	return created, err
}

// UpdateProduct applies a partial update. Requires an admin token.
func (a *API) UpdateProduct(ctx context.Context, token, id string, patch models.ProductPatch) (models.Product, error) {
	var updated models.Product
	err := a.do(ctx, http.MethodPut, "/products/"+id, token, patch, &updated)
	return updated, err
}

// DeleteProduct removes a product. Requires an admin token.
func (a *API) DeleteProduct(ctx context.Context, token, id string) error {
	return a.do(ctx, http.MethodDelete, "/products/"+id, token, nil, nil)
}

// PlaceOrder submits an order for the token's account.
func (a *API) PlaceOrder(ctx context.Context, token string, req OrderRequest) (models.Order, error) {
	var order models.Order
	err := a.do(ctx, http.MethodPost, "/orders", token, req, &order)
	return order, err
}

// Orders lists the token account's orders.
func (a *API) Orders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := a.do(ctx, http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Users lists all accounts. Requires an admin token.
func (a *API) Users(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	if err := a.do(ctx, http.MethodGet, "/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account. Requires an admin token.
func (a *API) DeleteUser(ctx context.Context, token, id string) error {
	return a.do(ctx, http.MethodDelete, "/users/"+id, token, nil, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
