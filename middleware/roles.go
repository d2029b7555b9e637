package middleware

import (
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that rejects authenticated users whose
// role is not in the allowed set. Runs after JWTMiddleware, so a missing
// user here means a missing token (401); a wrong role is a 403.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

func RequireAdmin() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

func RequireTeacher() fiber.Handler {
	return RequireRoles(models.RoleTeacher)
}

func RequireStudent() fiber.Handler {
	return RequireRoles(models.RoleStudent)
}

func RequireTeacherOrAdmin() fiber.Handler {
	return RequireRoles(models.RoleTeacher, models.RoleAdmin)
}

// RequireTeacherOrAdminOrStudent admits any known role. It still differs
// from bare JWTMiddleware: a token carrying an unknown role is a 403 here.
func RequireTeacherOrAdminOrStudent() fiber.Handler {
	return RequireRoles(models.RoleTeacher, models.RoleAdmin, models.RoleStudent)
}
