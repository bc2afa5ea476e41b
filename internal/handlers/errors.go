package handlers

import (
	"errors"
	"fmt"

	"storefront/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// messages overrides the per-route fallback message for errors the caller
// can act on.
var messages = []struct {
	err     error
	message string
}{
	{apperror.ErrInvalidCredentials, "Invalid email or password"},
	{apperror.ErrDuplicateEmail, "Email already in use."},
	{apperror.ErrDuplicateName, "Product name already exists."},
	{apperror.ErrEmptyCart, "No order items"},
	{apperror.ErrAccountMissing, "User not found."},
	{apperror.ErrForbidden, "Forbidden: Not an administrator"},
}

// respondError writes the {"message","error"} body with the status mapped from err.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := apperror.Status(err)
	message := fallback
	for _, m := range messages {
		if errors.Is(err, m.err) {
			message = m.message
			break
		}
	}

	entry := log.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	}).WithError(err)
	if status >= fiber.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Debug(message)
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// badRequest reports a body that could not be parsed.
func badRequest(c *fiber.Ctx, err error) error {
	log.WithError(err).WithField("path", c.Path()).Debug("Error parsing request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed reports request DTO violations field by field.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badRequest(c, err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// ErrorHandler is the fiber error handler: anything a handler returns instead
// of writing a response ends up here.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		code = apperror.Status(err)
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
