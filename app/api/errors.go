package api

import (
	"errors"

	"docsum/types"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiError, ok := err.(Error); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}
	if valError, ok := err.(ValidationError); ok {
		return c.Status(valError.Status).JSON(valError)
	}

	if apiError, ok := domainError(err); ok {
		return c.Status(apiError.Code).JSON(apiError)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, err.Error()))
}

// domainError maps the core error taxonomy onto HTTP statuses so callers
// can tell "try again later" from "fix your input" from "misconfigured".
func domainError(err error) (Error, bool) {
	switch {
	case errors.Is(err, types.ErrExtractionFailed):
		return NewError(fiber.StatusBadRequest, err.Error()), true
	case errors.Is(err, types.ErrNoRelevantContent):
		return NewError(fiber.StatusNotFound, "no indexed content matches this request; upload a document first"), true
	case errors.Is(err, types.ErrProviderRateLimited):
		return NewError(fiber.StatusTooManyRequests, "generation providers are rate limited, try again later"), true
	case errors.Is(err, types.ErrProviderAuthFailed):
		return NewError(fiber.StatusBadGateway, "generation provider credentials rejected"), true
	case errors.Is(err, types.ErrProviderExhausted):
		return NewError(fiber.StatusBadGateway, "all generation providers failed"), true
	case errors.Is(err, types.ErrEmbeddingFailed):
		return NewError(fiber.StatusServiceUnavailable, "embedding model unavailable"), true
	case errors.Is(err, types.ErrIndexWrite), errors.Is(err, types.ErrIndexUnavailable):
		return NewError(fiber.StatusServiceUnavailable, "similarity index unavailable"), true
	}
	return Error{}, false
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}
