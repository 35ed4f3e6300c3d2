package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-mentorship/internal/engine"
	"github.com/noah-isme/gema-mentorship/internal/utils"
)

const actorLocal = "actor"

// RequireActor turns the verified role claim into an engine.Actor. Which operations
// the actor may call is decided by the engine.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.Locals("user_id").(string)
		roleClaim, _ := c.Locals("user_role").(string)
		if roleClaim == "" {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		role, err := engine.ParseRole(roleClaim)
		if err != nil {
			return utils.SendErrorCode(c, fiber.StatusForbidden, "FORBIDDEN_ROLE", "insufficient permissions", nil)
		}

		c.Locals(actorLocal, engine.Actor{ID: id, Role: role})
		return c.Next()
	}
}

// ActorFrom returns the actor resolved by RequireActor.
func ActorFrom(c *fiber.Ctx) engine.Actor {
	actor, _ := c.Locals(actorLocal).(engine.Actor)
	return actor
}
