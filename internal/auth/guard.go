package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClaimsContextKey is the locals key the guard stores verified claims under
const ClaimsContextKey = "auth:claims"

const authScheme = "Bearer"

// Required rejects requests without a valid bearer token. Verified claims
// are stored in the request locals for the handler.
func Required(ts *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c)
		if err != nil {
			return err
		}

		claims, err := ts.Validate(raw)
		if err != nil {
			return err
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// Optional admits anonymous callers: an absent or invalid token leaves the
// request without an identity instead of failing it.
func Optional(ts *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c)
		if err != nil {
			return c.Next()
		}

		claims, err := ts.Validate(raw)
		if err != nil {
			return c.Next()
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// AdminOnly validates the bearer token, then re-fetches the account and
// checks its
// current role. The token's embedded role is never trusted here: demotion
// takes effect on the next admin call even though issued tokens are not
// revoked.
func AdminOnly(ts *TokenService, accounts AccountSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c)
		if err != nil {
			return err
		}

		claims, err := ts.Validate(raw)
		if err != nil {
			return err
		}

		role, found, err := accounts.CurrentRole(c.UserContext(), claims.UserID())
		if err != nil {
			return err
		}
		if !found {
			return ErrAccountNotFound
		}
		if role != RoleAdmin {
			return ErrAdminRequired
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by the guard, or nil for
// anonymous requests.
func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, ok := c.Locals(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

func tokenFromHeader(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) || parts[1] == "" {
		return "", ErrMissingToken
	}

	return parts[1], nil
}
