package courseRoutes

import (
	courseControllers "learnhub/controllers/course"
	"learnhub/middleware"
	courseValidators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Approval link endpoint; the signed token is the authorization, so no
	// JWT gate. Registered before the /:id routes so "enrollment" is never
	// captured as a course id.
	courseGroup.Get("/enrollment/approve", courseControllers.ApproveStudentByToken)

	// Catalog reads work for anonymous viewers too.
	courseGroup.Get("/", middleware.OptionalJWTMiddleware, courseControllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, courseControllers.GetCourseDetails)
	courseGroup.Get("/:id/sections", middleware.OptionalJWTMiddleware, courseControllers.ListSections)
	courseGroup.Get("/:id/sections/:sectionId", middleware.OptionalJWTMiddleware, courseControllers.ViewSection)

	// Teacher surface.
	courseGroup.Post("/", courseValidators.CreateCourse(), middleware.JWTMiddleware, middleware.RequireTeacher(), courseControllers.CreateCourse)
	courseGroup.Patch("/:id", courseValidators.UpdateCourse(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), courseControllers.UpdateCourse)
	courseGroup.Patch("/:id/visibility", middleware.JWTMiddleware, middleware.RequireTeacher(), courseControllers.ToggleVisibility)
	courseGroup.Post("/:id/picture", middleware.JWTMiddleware, middleware.RequireTeacher(), courseControllers.UploadCoursePicture)
	courseGroup.Post("/:id/sections", courseValidators.CreateSection(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), courseControllers.CreateSection)
	courseGroup.Patch("/:id/sections/:sectionId", courseValidators.UpdateSection(), middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), courseControllers.UpdateSection)
	courseGroup.Delete("/:id/sections/:sectionId", middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), courseControllers.DeleteSection)
	courseGroup.Get("/:id/pending", middleware.JWTMiddleware, middleware.RequireTeacher(), courseControllers.PendingStudents)
	courseGroup.Post("/:id/students/:studentId/approve", middleware.JWTMiddleware, middleware.RequireTeacher(), courseControllers.ApproveStudent)
	courseGroup.Delete("/:id/students/:studentId", middleware.JWTMiddleware, middleware.RequireTeacherOrAdmin(), courseControllers.RemoveStudent)

	// Student surface.
	courseGroup.Get("/me/enrollments", middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.MyEnrollments)
	courseGroup.Post("/:id/subscribe", middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.Subscribe)
	courseGroup.Delete("/:id/subscribe", middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.Unsubscribe)
	courseGroup.Patch("/:id/favorite", middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.ToggleFavorite)
	courseGroup.Post("/:id/rate", courseValidators.RateCourse(), middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.RateCourse)
	courseGroup.Post("/:id/sections/:sectionId/complete", middleware.JWTMiddleware, middleware.RequireStudent(), courseControllers.MarkSectionCompleted)
}
