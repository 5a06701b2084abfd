package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors returned by the user usecase and repository layers.
var (
	ErrMissingFields          = NewValidationError("", "Nome e email são obrigatórios")
	ErrInvalidID              = NewValidationError("id", "ID inválido")
	ErrUserNotFound           = NewNotFoundError("user", "Usuário não encontrado")
	ErrEmailAlreadyRegistered = NewAlreadyExistsError("email", "Email já cadastrado")
)

// HTTPStatuser is implemented by errors that know which HTTP status they map to.
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus implements HTTPStatuser
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus implements HTTPStatuser
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a uniqueness conflict on a resource field.
// The API reports it as a client error rather than a conflict.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus implements HTTPStatuser
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements HTTPStatuser
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// PublicMessage returns the fixed, client-facing message of a domain error.
// ok is false for errors that carry no fixed message (store failures and
// anything unrecognized); callers should report those with their raw text.
func PublicMessage(err error) (msg string, ok bool) {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		existsErr     *AlreadyExistsError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message, true
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error(), true
	case errors.As(err, &existsErr):
		return existsErr.Error(), true
	}
	return "", false
}
