package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

var ErrBadRequest = errors.New("bad request")

// BadRequestError covers caller mistakes: empty texts, partial
// provider/model overrides, unknown models.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *BadRequestError) Unwrap() error {
	return ErrBadRequest
}

func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}

var ErrUnavailable = errors.New("external capability unavailable")

// UnavailableError is returned when an external capability (embeddings or
// chat) is unreachable or misbehaving. It is retryable by the caller; recall
// itself never retries.
type UnavailableError struct {
	Service       string
	OriginalError error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (original error: %v)", e.Service, e.OriginalError)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service string, originalError error) error {
	return &UnavailableError{Service: service, OriginalError: originalError}
}

var ErrBadConfiguration = errors.New("bad configuration")

// ConfigurationError is fatal for the operation that triggered it and is
// never retried: a missing credential or an invalid provider/model selection.
type ConfigurationError struct {
	Message       string
	OriginalError error
}

func (e *ConfigurationError) Error() string {
	if e.OriginalError == nil {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: %s (original error: %v)", e.Message, e.OriginalError)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrBadConfiguration
}

func NewConfigurationError(message string, originalError error) error {
	return &ConfigurationError{Message: message, OriginalError: originalError}
}

var ErrDataIntegrity = errors.New("data integrity violation")

// DataIntegrityError marks state that must never occur inside a store, such
// as an embedding whose width doesn't match the store's dimensions.
type DataIntegrityError struct {
	Message       string
	OriginalError error
}

func (e *DataIntegrityError) Error() string {
	if e.OriginalError == nil {
		return fmt.Sprintf("data integrity error: %s", e.Message)
	}
	return fmt.Sprintf("data integrity error: %s (original error: %v)", e.Message, e.OriginalError)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

func NewDataIntegrityError(message string, originalError error) error {
	return &DataIntegrityError{Message: message, OriginalError: originalError}
}
