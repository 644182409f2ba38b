package middleware

import (
	"dirtex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the typed view of the session user handlers thread into services.
type Actor struct {
	UserID            uuid.UUID
	FirstName         string
	Email             string
	Phone             string
	CompanyName       string
	IsSubscriber      bool
	SearchRadiusMiles int
}

// GetActor parses the session user into an Actor. ok is false when there is
// no valid session user (missing or malformed user_id).
func GetActor(c *fiber.Ctx) (Actor, bool) {
	m, _ := c.Locals(userLocal).(map[string]interface{})
	if m == nil {
		return Actor{}, false
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Actor{}, false
	}
	a := Actor{UserID: id}
	a.FirstName, _ = m["first_name"].(string)
	a.Email, _ = m["email"].(string)
	a.Phone, _ = m["phone"].(string)
	a.CompanyName, _ = m["company_name"].(string)
	a.IsSubscriber, _ = m["is_subscriber"].(bool)
	switch v := m["search_radius_miles"].(type) {
	case float64:
		a.SearchRadiusMiles = int(v)
	case int:
		a.SearchRadiusMiles = v
	}
	return a, true
}
