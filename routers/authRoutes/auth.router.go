package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, middleware.RequireTeacherOrAdminOrStudent(), authControllers.Me)
	authGroup.Patch("/me", authValidators.UpdateProfile(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdminOrStudent(), authControllers.UpdateMe)
	authGroup.Delete("/me", middleware.JWTMiddleware, middleware.RequireTeacherOrAdminOrStudent(), authControllers.DeleteMe)
	authGroup.Post("/me/picture", middleware.JWTMiddleware, middleware.RequireTeacherOrAdminOrStudent(), authControllers.UploadProfilePicture)
}
