package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorlink/internal/auth"
	"mentorlink/internal/model"
)

func TestAuth(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)

	app := fiber.New()
	app.Use(Auth(tokens))
	app.Get("/me", func(c *fiber.Ctx) error {
		viewer := ViewerFromCtx(c)
		return c.JSON(fiber.Map{"user_id": viewer.UserID, "role": string(viewer.Role)})
	})

	t.Run("should accept a valid token and expose the identity", func(t *testing.T) {
		token, err := tokens.Issue("user-1", model.RoleMentor)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "mentor", body["role"])
	})

	t.Run("should reject a missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should reject a non-bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should reject a garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expired := auth.NewManager("test-secret", -time.Minute)
		token, err := expired.Issue("user-1", model.RoleMentor)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)

	app := fiber.New()
	app.Use(Auth(tokens))
	app.Get("/admin", RequireRoles(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/review", RequireRoles(model.RoleMentor, model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	request := func(t *testing.T, path string, role model.Role) int {
		t.Helper()

		token, err := tokens.Issue("user-1", role)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusForbidden, request(t, "/admin", model.RoleStudent))
	assert.Equal(t, fiber.StatusForbidden, request(t, "/admin", model.RoleMentor))
	assert.Equal(t, fiber.StatusOK, request(t, "/admin", model.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, request(t, "/review", model.RoleMentor))
	assert.Equal(t, fiber.StatusOK, request(t, "/review", model.RoleAdmin))
	assert.Equal(t, fiber.StatusForbidden, request(t, "/review", model.RoleStudent))
}
