package middleware

import (
	"adaptive-iq/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedSessionIDKey holds the checked :id path parameter in fiber.Ctx locals.
const ValidatedSessionIDKey = "validated_session_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// Validator exposes the body validators to handlers.
func (vm *ValidationMiddleware) Validator() *validation.Validator {
	return vm.validator
}

// ValidateSessionID validates the :id path parameter of /api/tests/:id/*
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateSessionID(id); len(errors) > 0 {
			return errors // handled by ErrorHandler
		}
		c.Locals(ValidatedSessionIDKey, id)
		return c.Next()
	}
}

// SessionID returns the validated session id, falling back to the raw path parameter.
func SessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ValidatedSessionIDKey).(string); ok && id != "" {
		return id
	}
	return c.Params("id")
}
