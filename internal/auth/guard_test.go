package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizecalc/sizing-api/internal/auth"
)

// fakeAccounts is an in-memory AccountSource keyed by user id.
type fakeAccounts struct {
	roles map[string]auth.Role
	err   error
}

func (f *fakeAccounts) CurrentRole(_ context.Context, userID string) (auth.Role, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	role, ok := f.roles[userID]
	return role, ok, nil
}

func guardApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var rich *goerrors.Error
			if goerrors.As(err, &rich) {
				return c.Status(rich.Code).JSON(fiber.Map{"detail": rich.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/probe", handler, func(c *fiber.Ctx) error {
		claims := auth.ClaimsFromContext(c)
		if claims == nil {
			return c.JSON(fiber.Map{"subject": ""})
		}
		return c.JSON(fiber.Map{"subject": claims.UserID()})
	})
	return app
}

func probe(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func TestRequired(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour)
	app := guardApp(auth.Required(ts))

	t.Run("valid token passes", func(t *testing.T) {
		token, err := ts.Generate(testSubject())
		require.NoError(t, err)

		res := probe(t, app, token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		res := probe(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("malformed scheme is rejected", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwdw==")
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := ts.GenerateExpiring(testSubject(), -time.Minute)
		require.NoError(t, err)

		res := probe(t, app, token)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		other := auth.NewTokenService([]byte("not-the-key"), time.Hour)
		token, err := other.Generate(testSubject())
		require.NoError(t, err)

		res := probe(t, app, token)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestOptional(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour)
	app := guardApp(auth.Optional(ts))

	t.Run("anonymous request passes without claims", func(t *testing.T) {
		res := probe(t, app, "")
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("invalid token still passes without claims", func(t *testing.T) {
		res := probe(t, app, "garbage")
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		token, err := ts.Generate(testSubject())
		require.NoError(t, err)

		res := probe(t, app, token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestAdminOnly(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour)
	subject := testSubject()

	token, err := ts.Generate(subject)
	require.NoError(t, err)

	t.Run("current admin passes", func(t *testing.T) {
		accounts := &fakeAccounts{roles: map[string]auth.Role{subject.SubjectID: auth.RoleAdmin}}
		res := probe(t, guardApp(auth.AdminOnly(ts, accounts)), token)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("demoted admin is rejected even with admin claim", func(t *testing.T) {
		adminClaim := auth.TokenSubject{
			SubjectID:    subject.SubjectID,
			SubjectEmail: subject.SubjectEmail,
			SubjectRole:  auth.RoleAdmin,
		}
		stale, err := ts.Generate(adminClaim)
		require.NoError(t, err)

		accounts := &fakeAccounts{roles: map[string]auth.Role{subject.SubjectID: auth.RoleUser}}
		res := probe(t, guardApp(auth.AdminOnly(ts, accounts)), stale)
		assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	})

	t.Run("deleted account is rejected", func(t *testing.T) {
		accounts := &fakeAccounts{roles: map[string]auth.Role{}}
		res := probe(t, guardApp(auth.AdminOnly(ts, accounts)), token)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})

	t.Run("missing token is rejected before any lookup", func(t *testing.T) {
		accounts := &fakeAccounts{err: assert.AnError}
		res := probe(t, guardApp(auth.AdminOnly(ts, accounts)), "")
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("lookup failure surfaces", func(t *testing.T) {
		accounts := &fakeAccounts{err: assert.AnError}
		res := probe(t, guardApp(auth.AdminOnly(ts, accounts)), token)
		assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
	})
}
