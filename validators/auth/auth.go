package authValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhoneNumber    string `json:"phone_number"`
	LinkedInAcc    string `json:"linked_in_acc"`
	ProfilePicture string `json:"profile_picture"`
}

// Register validates the role-specific registration payload. Role-specific
// required fields are a 422, per-field messages included.
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if !strings.Contains(reqData.Email, "@") {
			errors["email"] = "Email is not valid!"
		}

		if len(reqData.Password) < 6 {
			errors["password"] = "Password must be at least 6 characters long!"
		}

		switch reqData.Role {
		case models.RoleAdmin, models.RoleStudent:
			if strings.TrimSpace(reqData.FirstName) == "" || strings.TrimSpace(reqData.LastName) == "" {
				errors["name"] = "First and last name are required!"
			}
		case models.RoleTeacher:
			if strings.TrimSpace(reqData.FirstName) == "" {
				errors["first_name"] = "Teachers must provide first name!"
			}
			if strings.TrimSpace(reqData.LastName) == "" {
				errors["last_name"] = "Teachers must provide last name!"
			}
			if strings.TrimSpace(reqData.PhoneNumber) == "" {
				errors["phone_number"] = "Teachers must provide phone number!"
			}
			if strings.TrimSpace(reqData.LinkedInAcc) == "" {
				errors["linked_in_acc"] = "Teachers must provide LinkedIn account!"
			}
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported role!", nil)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

type UpdateProfileRequest struct {
	Password       *string `json:"password"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	LinkedInAcc    *string `json:"linked_in_acc"`
	ProfilePicture *string `json:"profile_picture"`
}

// UpdateProfile validates the partial profile update. Every field is
// optional; nil means "leave unchanged".
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Password != nil && len(*reqData.Password) < 6 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"password": "Password must be at least 6 characters long!",
			})
		}

		c.Locals("validatedProfileUpdate", reqData)
		return c.Next()
	}
}
