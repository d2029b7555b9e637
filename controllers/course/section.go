package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// sectionCourse loads a section together with its course, or a 404-style
// rejection when either is missing.
func sectionCourse(db *gorm.DB, sectionID uint) (*models.Section, *models.Course, error) {
	var section models.Section
	if err := db.First(&section, sectionID).Error; err != nil {
		return nil, nil, services.NotFound("Section not found")
	}
	var course models.Course
	if err := db.First(&course, section.CourseID).Error; err != nil {
		return nil, nil, services.NotFound("Section not found")
	}
	return &section, &course, nil
}

// CreateSection adds a section to a course the caller owns (admins may add
// to any course).
func CreateSection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData, ok := c.Locals("validatedSection").(*courseValidator.SectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if user.Role != models.RoleAdmin && course.OwnerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the owner of this course.", nil)
	}

	section := models.Section{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Content:     reqData.Content,
		Description: reqData.Description,
		Information: reqData.Information,
		Link:        reqData.Link,
	}
	if err := database.Database.Db.Create(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section added to course successfully!", section)
}

// UpdateSection applies a partial update to a section of a course the caller
// owns.
func UpdateSection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID, err := c.ParamsInt("sectionId")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	reqData, ok := c.Locals("validatedSectionUpdate").(*courseValidator.UpdateSectionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, course, err := sectionCourse(database.Database.Db, uint(sectionID))
	if err != nil {
		return serviceError(c, err)
	}
	if user.Role != models.RoleAdmin && course.OwnerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the owner of this course.", nil)
	}

	if reqData.Title != nil {
		section.Title = *reqData.Title
	}
	if reqData.Content != nil {
		section.Content = *reqData.Content
	}
	if reqData.Description != nil {
		section.Description = *reqData.Description
	}
	if reqData.Information != nil {
		section.Information = *reqData.Information
	}
	if reqData.Link != nil {
		section.Link = *reqData.Link
	}

	if err := database.Database.Db.Save(section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

// DeleteSection removes a section from a course the caller owns.
func DeleteSection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID, err := c.ParamsInt("sectionId")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	section, course, err := sectionCourse(database.Database.Db, uint(sectionID))
	if err != nil {
		return serviceError(c, err)
	}
	if user.Role != models.RoleAdmin && course.OwnerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the owner of this course.", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("section_id = ?", section.ID).Delete(&models.SectionVisit{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(section).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// ListSections lists a course's sections under the same visibility rules as
// the course itself.
func ListSections(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	viewer := middleware.CurrentUser(c)

	// Visibility is decided by the course projection; sections follow it.
	if _, err := services.GetCourseByID(database.Database.Db, uint(courseID), viewer); err != nil {
		return serviceError(c, err)
	}

	var sections []models.Section
	if err := database.Database.Db.Where("course_id = ?", courseID).Order("id").Find(&sections).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sections!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched successfully!", fiber.Map{
		"sections": sections,
	})
}

// ViewSection returns a single section, subject to course visibility.
func ViewSection(c *fiber.Ctx) error {
	sectionID, err := c.ParamsInt("sectionId")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	viewer := middleware.CurrentUser(c)

	section, course, err := sectionCourse(database.Database.Db, uint(sectionID))
	if err != nil {
		return serviceError(c, err)
	}
	if _, err := services.GetCourseByID(database.Database.Db, course.ID, viewer); err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section fetched successfully!", section)
}

// MarkSectionCompleted records the caller's first visit of a section and
// advances enrollment progress.
func MarkSectionCompleted(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID, err := c.ParamsInt("sectionId")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	var enrollment *models.StudentCourse
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = services.MarkSectionCompleted(tx, user, uint(sectionID))
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress": enrollment.Progress,
	})
}
