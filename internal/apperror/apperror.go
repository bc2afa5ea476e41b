// Package apperror defines the error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountMissing     = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden: not an administrator")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("product name already exists")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("no order items")
	ErrStoreFailure       = errors.New("store failure")
)

var statuses = []struct {
	err    error
	status int
}{
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrAccountMissing, http.StatusNotFound},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrDuplicateName, http.StatusBadRequest},
	{ErrDuplicateEmail, http.StatusBadRequest},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrEmptyCart, http.StatusBadRequest},
	{ErrStoreFailure, http.StatusInternalServerError},
}

// Status maps err to the HTTP status code reported to the caller.
// Unknown errors are internal server errors.
func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
