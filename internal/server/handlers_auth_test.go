package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorDetail(t *testing.T, res *http.Response) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, res, &body)
	return body.Detail
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates the account", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/register", "", fiber.Map{
			"email":    "sam@example.com",
			"password": "hunter22",
			"name":     "Sam",
		})
		require.Equal(t, fiber.StatusCreated, res.StatusCode)

		var body map[string]any
		decodeBody(t, res, &body)
		assert.Equal(t, "sam@example.com", body["email"])
		assert.Equal(t, "user", body["role"])
		assert.NotEmpty(t, body["id"])
		assert.NotContains(t, body, "hashed_password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/register", "", fiber.Map{
			"email":    "sam@example.com",
			"password": "hunter22",
			"name":     "Other Sam",
		})
		require.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "email already registered", errorDetail(t, res))
	})

	t.Run("invalid email", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/register", "", fiber.Map{
			"email":    "not-an-email",
			"password": "hunter22",
			"name":     "Sam",
		})
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("missing password", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/register", "", fiber.Map{
			"email": "dana@example.com",
			"name":  "Dana",
		})
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/auth/register", strings.NewReader("{nope"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		res, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "kit@example.com", "hunter22")

	t.Run("valid credentials mint a bearer token", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/login", "", fiber.Map{
			"email":    "kit@example.com",
			"password": "hunter22",
		})
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var body map[string]string
		decodeBody(t, res, &body)
		assert.NotEmpty(t, body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
	})

	t.Run("wrong password", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/login", "", fiber.Map{
			"email":    "kit@example.com",
			"password": "wrong",
		})
		require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "incorrect email or password", errorDetail(t, res))
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		res := env.request(t, fiber.MethodPost, "/auth/login", "", fiber.Map{
			"email":    "nobody@example.com",
			"password": "hunter22",
		})
		require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "incorrect email or password", errorDetail(t, res))
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerAndLogin(t, "max@example.com", "hunter22")

	t.Run("returns the caller's account", func(t *testing.T) {
		res := env.request(t, fiber.MethodGet, "/auth/me", token, nil)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var body map[string]any
		decodeBody(t, res, &body)
		assert.Equal(t, userID, body["id"])
		assert.Equal(t, "max@example.com", body["email"])
		assert.NotContains(t, body, "hashed_password")
	})

	t.Run("no token", func(t *testing.T) {
		res := env.request(t, fiber.MethodGet, "/auth/me", "", nil)
		require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "not authenticated", errorDetail(t, res))
	})

	t.Run("garbage token", func(t *testing.T) {
		res := env.request(t, fiber.MethodGet, "/auth/me", "garbage", nil)
		require.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "could not validate credentials", errorDetail(t, res))
	})
}

func TestMyActivity(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "ray@example.com", "hunter22")

	res := env.request(t, fiber.MethodGet, "/auth/my-activity", token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var records []map[string]any
	decodeBody(t, res, &records)
	require.Len(t, records, 2, "registration and login are both on the trail")

	types := []string{records[0]["activity_type"].(string), records[1]["activity_type"].(string)}
	assert.ElementsMatch(t, []string{"register", "login"}, types)
}
