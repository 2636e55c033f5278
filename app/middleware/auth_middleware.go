package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OwnerKey is where the validated owner identity lands in fiber locals.
const OwnerKey = "owner"

// TokenValidator resolves a bearer credential to an owner identity.
// The core trusts the returned identity verbatim as its isolation key;
// it never performs authentication itself.
type TokenValidator interface {
	Validate(token string) (owner string, err error)
}

// StaticTokenValidator maps configured tokens to owners. It stands in for
// a real session service in front of the core.
type StaticTokenValidator struct {
	tokens map[string]string
}

func NewStaticTokenValidator(tokens map[string]string) *StaticTokenValidator {
	return &StaticTokenValidator{tokens: tokens}
}

func (v *StaticTokenValidator) Validate(token string) (string, error) {
	owner, ok := v.tokens[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return owner, nil
}

// Auth extracts the bearer token, validates it and stores the owner
// identity for downstream handlers.
func Auth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		owner, err := validator.Validate(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(OwnerKey, owner)
		return c.Next()
	}
}

// Owner reads the validated identity set by Auth.
func Owner(c *fiber.Ctx) string {
	owner, _ := c.Locals(OwnerKey).(string)
	return owner
}
