package storefront_test

import (
	"strings"
	"testing"

	"storefront/internal/models"
	"storefront/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Anonymous(t *testing.T) {
	s := storefront.State{}.WithProducts([]models.Product{widget, gadget}).WithCategory("tools")
	s, err := s.AddToCart(widget)
	require.NoError(t, err)

	html, err := storefront.Render(s)
	require.NoError(t, err)

	assert.Contains(t, html, "<h3>Widget</h3>")
	assert.NotContains(t, html, "<h3>Gadget</h3>")
	assert.Contains(t, html, `<span id="cart-count">1</span>`)
	assert.Contains(t, html, `<span id="cart-total">1.50</span>`)
	assert.Contains(t, html, "Widget - $1.50 x 1")
	assert.NotContains(t, html, "admin-dashboard")
}

func TestRender_AdminTable(t *testing.T) {
	s := storefront.State{}.WithProducts([]models.Product{widget, gadget}).
		Login(storefront.Session{Token: "t", Account: models.User{IsAdmin: true}})

	html, err := storefront.Render(s)
	require.NoError(t, err)
	assert.Contains(t, html, `id="admin-dashboard"`)
	assert.Equal(t, 2, strings.Count(html, "<tr data-id="))
}

func TestRender_EscapesAndTruncates(t *testing.T) {
	p := models.Product{ID: "x", Name: "<script>alert(1)</script>", Stock: 1, Description: strings.Repeat("a", 60)}
	html, err := storefront.Render(storefront.State{}.WithProducts([]models.Product{p}))
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, strings.Repeat("a", 50)+"...")
	assert.NotContains(t, html, strings.Repeat("a", 51))
}

func TestRender_Empty(t *testing.T) {
	html, err := storefront.Render(storefront.State{})
	require.NoError(t, err)
	assert.Contains(t, html, "No products found.")
	assert.Contains(t, html, `<span id="cart-total">0.00</span>`)
}
