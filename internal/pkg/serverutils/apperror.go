package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status alongside a user-visible message.
type AppError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ErrConfirmationRequired blocks a discard-and-navigate action until the
// client re-issues it with confirm=true. Declining leaves all state
// untouched.
func ErrConfirmationRequired() *AppError {
	return NewAppError(fiber.StatusConflict, "You have unsaved changes. Confirm to discard them.")
}

// ErrDeleteConfirmationRequired blocks a delete until the client
// re-issues it with confirm=true.
func ErrDeleteConfirmationRequired() *AppError {
	return NewAppError(fiber.StatusConflict, "This will permanently delete the record. Confirm to proceed.")
}

// ErrSessionNotFound covers expired and never-issued workspace ids.
func ErrSessionNotFound() *AppError {
	return NewAppError(fiber.StatusNotFound, "Workspace session not found or expired")
}

// ErrValidation reports the locally blocked save: no network call was
// made.
func ErrValidation(fields []string) *AppError {
	return &AppError{
		Code:    fiber.StatusUnprocessableEntity,
		Message: "Required fields are empty",
		Fields:  fields,
	}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
