package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mentorlink/internal/http/middleware"
	"mentorlink/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates the service layer's sentinel errors into
// standardized responses. Unknown errors collapse to a plain 500 so internal
// details never reach the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrInvalidVerdict):
		return writeError(c, fiber.StatusBadRequest, "INVALID_VERDICT", "verdict must be approved or rejected")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "category not found")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "assignment not found")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "email is already registered")
	case errors.Is(err, service.ErrAssignmentExists):
		return writeError(c, fiber.StatusConflict, "ASSIGNMENT_EXISTS", "assignment already exists")
	case errors.Is(err, service.ErrCategoryNameTaken):
		return writeError(c, fiber.StatusConflict, "CATEGORY_NAME_TAKEN", "category name is already in use")
	case errors.Is(err, service.ErrNotEditable):
		return writeError(c, fiber.StatusConflict, "NOT_EDITABLE", "document is no longer editable")
	case errors.Is(err, service.ErrNotResubmittable):
		return writeError(c, fiber.StatusConflict, "NOT_RESUBMITTABLE", "only rejected documents can be resubmitted")
	case errors.Is(err, service.ErrNotReviewable):
		return writeError(c, fiber.StatusConflict, "NOT_REVIEWABLE", "document is not awaiting review")
	case errors.Is(err, service.ErrFeedbackRequired):
		return writeError(c, fiber.StatusUnprocessableEntity, "FEEDBACK_REQUIRED", "rejection requires feedback")
	case errors.Is(err, service.ErrNotMentor):
		return writeError(c, fiber.StatusUnprocessableEntity, "NOT_A_MENTOR", "user is not a mentor")
	case errors.Is(err, service.ErrNotStudent):
		return writeError(c, fiber.StatusUnprocessableEntity, "NOT_A_STUDENT", "user is not a student")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "not allowed")
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
