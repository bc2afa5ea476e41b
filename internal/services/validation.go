package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/apperror"

	"github.com/go-playground/validator/v10"
)

// validationError turns validator failures into an ErrInvalidInput carrying
// one message per offending field.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidInput, err)
	}
	errorMessages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	sort.Strings(errorMessages)
	return fmt.Errorf("%w: %s", apperror.ErrInvalidInput, strings.Join(errorMessages, "; "))
}
