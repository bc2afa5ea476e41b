// Package storefront is the client side of the store: it keeps the product
// list, the cart and the session, and renders them.
package storefront

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"storefront/internal/models"
)

// AllCategories is the category filter value that shows every product.
const AllCategories = "All"

var (
	ErrOutOfStock       = errors.New("this product is currently out of stock")
	ErrStockLimit       = errors.New("cannot add more items than are in stock")
	ErrNotAuthenticated = errors.New("please log in to proceed with checkout")
	ErrEmptyCart        = errors.New("your cart is empty")
)

// CartLine is one product in the cart. Product is the snapshot taken when
// the line was added.
type CartLine struct {
	Product  models.Product
	Quantity int
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// State is everything the client knows. Actions never modify a State in
// place; they return a new one.
type State struct {
	Products []models.Product
	Category string
	Cart     []CartLine
	Token    string
	Account  models.User
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Login stores the session's token and account.
func (s State) Login(session Session) State {
	s.Token = session.Token
	s.Account = session.Account
	return s
}

// Logout forgets the token locally. The token stays valid on the server.
func (s State) Logout() State {
	s.Token = ""
	s.Account = models.User{}
	return s
}

// WithProducts replaces the product list.
func (s State) WithProducts(products []models.Product) State {
	s.Products = slices.Clone(products)
	return s
}

// WithCategory sets the category filter; "" or AllCategories shows everything.
func (s State) WithCategory(category string) State {
	s.Category = category
	return s
}

// VisibleProducts returns the products matching the category filter.
func (s State) VisibleProducts() []models.Product {
	if s.Category == "" || s.Category == AllCategories {
		return s.Products
	}
	var visible []models.Product
	for _, p := range s.Products {
		if p.Category == s.Category {
			visible = append(visible, p)
		}
	}
	return visible
}

// Categories lists the distinct product categories in name order.
func (s State) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.Products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// AddToCart adds one unit of product. Out-of-stock products and quantities
// beyond the known stock are refused.
func (s State) AddToCart(product models.Product) (State, error) {
	if product.Stock <= 0 {
		return s, fmt.Errorf("%s: %w", product.Name, ErrOutOfStock)
	}

	cart := slices.Clone(s.Cart)
	for i := range cart {
		if cart[i].Product.ID != product.ID {
			continue
		}
		if cart[i].Quantity >= product.Stock {
			return s, fmt.Errorf("cannot add more than %d of %s: %w", product.Stock, product.Name, ErrStockLimit)
		}
		cart[i].Quantity++
		s.Cart = cart
		return s, nil
	}

	s.Cart = append(cart, CartLine{Product: product, Quantity: 1})
	return s, nil
}

// RemoveFromCart drops the line for productID.
func (s State) RemoveFromCart(productID string) State {
	s.Cart = slices.DeleteFunc(slices.Clone(s.Cart), func(l CartLine) bool {
		return l.Product.ID == productID
	})
	return s
}

// ClearCart empties the cart.
func (s State) ClearCart() State {
	s.Cart = nil
	return s
}

// Total is the sum of all line subtotals.
func (s State) Total() float64 {
	var total float64
	for _, l := range s.Cart {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units in the cart.
func (s State) Count() int {
	var count int
	for _, l := range s.Cart {
		count += l.Quantity
	}
	return count
}
