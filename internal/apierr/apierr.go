// Package apierr defines the typed errors handlers raise and the top-level
// handler that renders them as the JSON error envelope.
package apierr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error carries an HTTP status code alongside a user-facing message.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an arbitrary status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadBody reports malformed or missing input (400).
func BadBody(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}

// Unauthorized reports a missing, invalid or expired credential, or a failed
// profile resolution (401). Callers deliberately reuse one message across
// failure modes so the response does not reveal which check failed.
func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message)
}

// Forbidden reports an authenticated but unpermitted action (403).
func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message)
}

// NotFound reports an absent referenced entity (404).
func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message)
}

// Conflict reports a uniqueness violation (409).
func Conflict(message string) *Error {
	return New(fiber.StatusConflict, message)
}

// Internal reports an unexpected failure (500).
func Internal(message string) *Error {
	return New(fiber.StatusInternalServerError, message)
}

// ErrorHandler converts any error escaping a handler into the
// {"success":false,"data":{"message":...}} envelope. Untyped errors become
// 500s with a generic message; only 5xx responses are logged as failures,
// everything else is an expected user-facing outcome.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var apiErr *Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &apiErr):
			code = apiErr.Code
			message = apiErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"data":    fiber.Map{"message": message},
		})
	}
}
