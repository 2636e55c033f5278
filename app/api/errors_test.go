package api

import (
	"fmt"
	"testing"

	"docsum/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{types.ErrExtractionFailed, fiber.StatusBadRequest},
		{types.ErrNoRelevantContent, fiber.StatusNotFound},
		{types.ErrProviderRateLimited, fiber.StatusTooManyRequests},
		{types.ErrProviderAuthFailed, fiber.StatusBadGateway},
		{types.ErrProviderExhausted, fiber.StatusBadGateway},
		{types.ErrEmbeddingFailed, fiber.StatusServiceUnavailable},
		{types.ErrIndexWrite, fiber.StatusServiceUnavailable},
		{types.ErrIndexUnavailable, fiber.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		apiErr, ok := domainError(tc.err)
		require.True(t, ok, "expected %v to map to an api error", tc.err)
		assert.Equal(t, tc.code, apiErr.Code)
	}
}

func TestDomainErrorMatchesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("scanning page 3: %w", types.ErrExtractionFailed)
	apiErr, ok := domainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Code)
}

func TestDomainErrorIgnoresUnknownErrors(t *testing.T) {
	_, ok := domainError(fmt.Errorf("disk on fire"))
	assert.False(t, ok)
}
