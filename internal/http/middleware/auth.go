package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mentorlink/internal/auth"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

const (
	// AuthUserIDKey is the context locals key holding the authenticated user ID.
	AuthUserIDKey = "auth_user_id"
	// AuthRoleKey is the context locals key holding the authenticated role.
	AuthRoleKey = "auth_role"
)

// Auth verifies the Authorization bearer token and stores the authenticated
// identity in context locals. Requests without a valid token are rejected
// with 401 before reaching the handler.
func Auth(tokens *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(AuthUserIDKey, claims.UserID)
		c.Locals(AuthRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRoles rejects the request with 403 unless the authenticated role is
// one of the given roles. Must be registered after Auth.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(AuthRoleKey).(model.Role)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// ViewerFromCtx builds the repository viewer for the authenticated request.
// Zero value when the request is unauthenticated.
func ViewerFromCtx(c *fiber.Ctx) repository.Viewer {
	id, _ := c.Locals(AuthUserIDKey).(string)
	role, _ := c.Locals(AuthRoleKey).(model.Role)
	return repository.Viewer{UserID: id, Role: role}
}
