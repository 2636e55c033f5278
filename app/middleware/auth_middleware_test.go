package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"docsum/app/api"
	"docsum/app/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: api.ErrorHandler})
	validator := middleware.NewStaticTokenValidator(map[string]string{"tok-1": "alice"})
	app.Use(middleware.Auth(validator))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.Owner(c))
	})
	return app
}

func TestAuthRejectsMissingToken(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthResolvesOwner(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "alice", string(body))
}
