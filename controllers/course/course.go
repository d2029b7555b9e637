package controllers

import (
	"log"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services"
	"learnhub/utils"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceError maps a business-rule rejection onto the JSON envelope.
func serviceError(c *fiber.Ctx, err error) error {
	return middleware.JsonResponse(c, services.StatusOf(err), false, services.MessageOf(err), nil)
}

// GetAllCourses lists the catalog as the caller may see it. Works for
// anonymous viewers too; the optional JWT middleware decides who is asking.
func GetAllCourses(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	titleFilter := c.Query("title")
	tagFilter := c.Query("tag")

	views, err := services.ListCourses(database.Database.Db, viewer, titleFilter, tagFilter)
	if err != nil {
		log.Printf("Error listing courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": views,
	})
}

func GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	viewer := middleware.CurrentUser(c)

	view, err := services.GetCourseByID(database.Database.Db, uint(courseID), viewer)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", view)
}

func CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course *models.Course
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.CreateCourse(tx, user, reqData.Title, reqData.Description, reqData.Objectives, reqData.IsPremium)
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	payload := services.CourseUpdate{
		Title:       reqData.Title,
		Description: reqData.Description,
		Objectives:  reqData.Objectives,
		IsPremium:   reqData.IsPremium,
	}

	var course *models.Course
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.UpdateCourse(tx, user, uint(courseID), payload)
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// ToggleVisibility hides or unhides a course the caller owns.
func ToggleVisibility(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course *models.Course
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.ToggleVisibility(tx, user, uint(courseID))
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	message := "Course '" + course.Title + "' is now visible."
	if course.IsHidden {
		message = "Course '" + course.Title + "' has been hidden successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// DeleteCourse removes a course with its sections, enrollments and tag
// links. Admin only (routed behind the admin gate).
func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.StudentCourse{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.CourseTag{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&course).Error
	})
	if err != nil {
		log.Printf("Error deleting course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// UploadCoursePicture stores a course picture in the object store. Owner
// only.
func UploadCoursePicture(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if course.OwnerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the owner of this course.", nil)
	}

	file, err := c.FormFile("picture")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Picture file is required!", nil)
	}

	url, err := utils.UploadImage(file, "course_pictures")
	if err != nil {
		log.Printf("Error uploading course picture: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload picture!", nil)
	}

	if err := database.Database.Db.Model(&course).Update("picture", url).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save picture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Picture uploaded successfully!", fiber.Map{
		"url": url,
	})
}
