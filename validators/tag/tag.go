package tagValidator

import (
	"strings"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateTagRequest struct {
	Name string `json:"name"`
}

func CreateTag() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTagRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"name": "Name is required!",
			})
		}

		c.Locals("validatedTag", reqData)
		return c.Next()
	}
}

type AttachTagRequest struct {
	TagID uint `json:"tag_id"`
}

func AttachTag() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AttachTagRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.TagID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"tag_id": "Tag id is required!",
			})
		}

		c.Locals("validatedAttachTag", reqData)
		return c.Next()
	}
}
