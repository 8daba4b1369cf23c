package api

import (
	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeInvalidLayout         = "INVALID_LAYOUT"
	CodeDashboardNotPublished = "DASHBOARD_NOT_PUBLISHED"
	CodeDashboardBlocked      = "DASHBOARD_BLOCKED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
)

// Error is a request-terminal failure with an HTTP status and a stable code.
// Services return these; the Fiber error handler renders them.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// NotFound is the uniform response for entities that are absent or belong
// to another tenant. The caller cannot tell the two apart.
func NotFound(message string) *Error {
	return NewError(fiber.StatusNotFound, CodeNotFound, message)
}

func Forbidden(message string) *Error {
	return NewError(fiber.StatusForbidden, CodeForbidden, message)
}

func InvalidLayout(message string) *Error {
	return NewError(fiber.StatusBadRequest, CodeInvalidLayout, message)
}
