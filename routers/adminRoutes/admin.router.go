package adminRoutes

import (
	adminControllers "learnhub/controllers/admin"
	courseControllers "learnhub/controllers/course"
	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	// Approval link endpoint; authorized by the signed token alone.
	adminGroup.Get("/teachers/approve", adminControllers.ApproveTeacherByToken)

	adminGroup.Get("/users", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.ListUsers)
	adminGroup.Patch("/users/:id/deactivate", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.DeactivateUser)
	adminGroup.Patch("/users/:id/reactivate", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.ReactivateUser)

	adminGroup.Get("/teachers/pending", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.PendingTeachers)
	adminGroup.Patch("/teachers/:id/approve", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.ApproveTeacher)

	adminGroup.Get("/courses", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.ListAllCourses)
	adminGroup.Get("/courses/:id/ratings", middleware.JWTMiddleware, middleware.RequireAdmin(), adminControllers.CourseRatings)
	adminGroup.Delete("/courses/:id", middleware.JWTMiddleware, middleware.RequireAdmin(), courseControllers.DeleteCourse)
}
