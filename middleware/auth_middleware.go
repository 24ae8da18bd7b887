package middleware

import (
	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const userLocal = "user"

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ContextKey:   userLocal,
		ErrorHandler: jwtError,
	})
}

// OptionalAuth verifies a bearer token when one is sent and lets anonymous
// requests through.
func OptionalAuth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ContextKey:   userLocal,
		ErrorHandler: jwtError,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

// CurrentPrincipal reads the caller set by Protected or OptionalAuth.
func CurrentPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	token, ok := c.Locals(userLocal).(*jwt.Token)
	if !ok || token == nil {
		return services.Principal{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return services.Principal{}, false
	}
	p, err := services.PrincipalFromClaims(claims)
	if err != nil {
		return services.Principal{}, false
	}
	return p, true
}

func RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}
		if p.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: " + role + " access required",
			})
		}
		return c.Next()
	}
}

func InstructorRequired() fiber.Handler {
	return RoleRequired(models.RoleInstructor)
}

func StudentRequired() fiber.Handler {
	return RoleRequired(models.RoleStudent)
}

// AdminRequired admits the admin role and any allow-listed email.
func AdminRequired(policy services.AdminPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}
		if !policy.IsAdmin(p) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}
