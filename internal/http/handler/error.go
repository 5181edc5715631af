package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"kycapi/internal/http/middleware"
	"kycapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string       `json:"code"`
	Kind    service.Kind `json:"kind,omitempty"`
	Message string       `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeKindError(c, status, code, "", message)
}

func writeKindError(c *fiber.Ctx, status int, code string, kind service.Kind, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Kind:    kind,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service error kind to its HTTP status. Internal errors are
// logged with their cause and answered with a generic message.
func writeServiceError(c *fiber.Ctx, err error) error {
	kind := service.KindOf(err)
	switch kind {
	case service.KindValidation:
		return writeKindError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", kind, service.PublicMessage(err))
	case service.KindNotFound:
		return writeKindError(c, fiber.StatusNotFound, "NOT_FOUND", kind, service.PublicMessage(err))
	case service.KindConflict:
		return writeKindError(c, fiber.StatusConflict, "CONFLICT", kind, service.PublicMessage(err))
	case service.KindStorage:
		slog.ErrorContext(c.UserContext(), "storage_error",
			"request_id", requestIDFromCtx(c),
			"path", c.Path(),
			"error_message", err.Error(),
		)
		return writeKindError(c, fiber.StatusBadGateway, "STORAGE_ERROR", kind, service.PublicMessage(err))
	default:
		slog.ErrorContext(c.UserContext(), "internal_error",
			"request_id", requestIDFromCtx(c),
			"path", c.Path(),
			"error_message", err.Error(),
		)
		return writeKindError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", service.KindInternal, "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := ""
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
