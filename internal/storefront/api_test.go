package storefront_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
	"storefront/internal/storefront"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fixture struct {
	api   *storefront.API
	admin storefront.Session
}

// newFixture serves the API from a memory store and signs in an admin.
func newFixture(t *testing.T) fixture {
	t.Helper()
	v := config.New()
	v.Set("auth.jwt_secret", "client-test-secret")
	v.Set("ratelimit.rps", 0)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	st := store.NewMemory()
	application, err := app.New(cfg, st, nil)
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	require.NoError(t, err)
	_, err = services.NewAuthService(st.Users, tokens).EnsureAdmin(context.Background(), "Main Admin", "admin@x.com", "admin-pw")
	require.NoError(t, err)

	server := httptest.NewServer(adaptor.FiberApp(application))
	t.Cleanup(server.Close)

	api := storefront.NewAPI(server.URL+"/api", server.Client())
	admin, err := api.Login(context.Background(), "admin@x.com", "admin-pw")
	require.NoError(t, err)
	require.True(t, admin.Account.IsAdmin)
	return fixture{api: api, admin: admin}
}

func TestClient_AdminAndCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s := storefront.State{}.Login(f.admin)
	s, err := storefront.SaveProduct(ctx, f.api, s, models.Product{Name: "Widget", Price: 1.5, Stock: 3, Category: "tools"})
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	created := s.Products[0]

	created.Price = 2
	s, err = storefront.SaveProduct(ctx, f.api, s, created)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Products[0].Price)
	assert.Equal(t, "tools", s.Products[0].Category)

	shopper := storefront.State{}
	shopper, err = storefront.Refresh(ctx, f.api, shopper)
	require.NoError(t, err)
	shopper, err = shopper.AddToCart(shopper.Products[0])
	require.NoError(t, err)
	shopper, err = shopper.AddToCart(shopper.Products[0])
	require.NoError(t, err)

	_, _, err = storefront.Checkout(ctx, f.api, shopper)
	assert.ErrorIs(t, err, storefront.ErrNotAuthenticated)

	session, err := f.api.Register(ctx, "A", "a@x.com", "p1")
	require.NoError(t, err)
	shopper = shopper.Login(session)

	after, order, err := storefront.Checkout(ctx, f.api, shopper)
	require.NoError(t, err)
	assert.Empty(t, after.Cart)
	assert.Equal(t, session.Account.ID, order.UserID)
	assert.Equal(t, storefront.ShippingAddress, order.ShippingAddress)
	assert.Equal(t, 4.0, order.TotalPrice)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 2, order.OrderItems[0].Qty)

	orders, err := f.api.Orders(ctx, session.Token)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	s, err = storefront.DeleteProduct(ctx, f.api, s, created.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Products)
}

func TestClient_FailedCheckoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s := storefront.State{}.Login(storefront.Session{Token: "stale-or-forged"})
	s, err := s.AddToCart(widget)
	require.NoError(t, err)

	after, _, err := storefront.Checkout(ctx, f.api, s)
	var apiErr *storefront.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Not authorized, token failed or expired", apiErr.Message)
	assert.Equal(t, s.Cart, after.Cart)

	_, _, err = storefront.Checkout(ctx, f.api, storefront.State{Token: "t"})
	assert.ErrorIs(t, err, storefront.ErrEmptyCart)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.api.Login(ctx, "admin@x.com", "wrong")
	var apiErr *storefront.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	s := storefront.State{}
	after, err := storefront.SignIn(ctx, f.api, s, "admin@x.com", "wrong")
	assert.Error(t, err)
	assert.False(t, after.Authenticated())

	user, err := f.api.Register(ctx, "A", "a@x.com", "p1")
	require.NoError(t, err)
	_, err = f.api.CreateProduct(ctx, user.Token, models.Product{Name: "Nope"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, err = f.api.Register(ctx, "A", "a@x.com", "p1")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Email already in use.", apiErr.Message)
}

func TestClient_UserAdministration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.api.Register(ctx, "A", "a@x.com", "p1")
	require.NoError(t, err)

	users, err := f.api.Users(ctx, f.admin.Token)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, f.api.DeleteUser(ctx, f.admin.Token, user.Account.ID))
	users, err = f.api.Users(ctx, f.admin.Token)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestClient_SignIn(t *testing.T) {
	f := newFixture(t)
	s, err := storefront.SignIn(context.Background(), f.api, storefront.State{}, "admin@x.com", "admin-pw")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.True(t, s.Account.IsAdmin)
}
