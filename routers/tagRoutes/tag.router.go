package tagRoutes

import (
	tagControllers "learnhub/controllers/tag"
	"learnhub/middleware"
	tagValidators "learnhub/validators/tag"

	"github.com/gofiber/fiber/v2"
)

func SetupTagRoutes(app *fiber.App) {
	tagGroup := app.Group("/tag")

	tagGroup.Get("/", tagControllers.ListTags)
	tagGroup.Post("/", tagValidators.CreateTag(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), tagControllers.CreateTag)
	tagGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireAdmin(), tagControllers.DeleteTag)

	// Tag attachment lives under the course id it mutates.
	courseTagGroup := app.Group("/course/:id/tags")
	courseTagGroup.Post("/", tagValidators.AttachTag(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), tagControllers.AttachTag)
	courseTagGroup.Delete("/:tagId", middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), tagControllers.DetachTag)
}
