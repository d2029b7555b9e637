package tagController

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	tagValidator "learnhub/validators/tag"

	"github.com/gofiber/fiber/v2"
)

func CreateTag(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTag").(*tagValidator.CreateTagRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.Where("name = ?", reqData.Name).First(&models.Tag{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Tag already exists", nil)
	}

	tag := models.Tag{Name: reqData.Name}
	if err := database.Database.Db.Create(&tag).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tag created successfully!", tag)
}

func ListTags(c *fiber.Ctx) error {
	var tags []models.Tag
	if err := database.Database.Db.Order("name").Find(&tags).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tags!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tags fetched successfully!", fiber.Map{
		"tags": tags,
	})
}

func DeleteTag(c *fiber.Ctx) error {
	tagID, err := c.ParamsInt("id")
	if err != nil || tagID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid tag id!", nil)
	}

	var tag models.Tag
	if err := database.Database.Db.First(&tag, tagID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found", nil)
	}

	db := database.Database.Db
	if err := db.Unscoped().Where("tag_id = ?", tag.ID).Delete(&models.CourseTag{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete tag!", nil)
	}
	if err := db.Unscoped().Delete(&tag).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag deleted successfully!", nil)
}

// AttachTag links a tag to a course the caller owns (admins may tag any
// course).
func AttachTag(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData, ok := c.Locals("validatedAttachTag").(*tagValidator.AttachTagRequest)
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

	var tag models.Tag
	if err := database.Database.Db.First(&tag, reqData.TagID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag not found", nil)
	}

	var count int64
	database.Database.Db.Model(&models.CourseTag{}).
		Where("course_id = ? AND tag_id = ?", course.ID, tag.ID).
		Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Tag is already attached to this course", nil)
	}

	link := models.CourseTag{CourseID: course.ID, TagID: tag.ID}
	if err := database.Database.Db.Create(&link).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to attach tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag '"+tag.Name+"' added to '"+course.Title+"'.", nil)
}

// DetachTag removes a tag link from a course the caller owns.
func DetachTag(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	tagID, err2 := c.ParamsInt("tagId")
	if err != nil || err2 != nil || courseID < 1 || tagID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course or tag id!", nil)
	}

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if user.Role != models.RoleAdmin && course.OwnerID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the owner of this course.", nil)
	}

	var link models.CourseTag
	if err := database.Database.Db.Where("course_id = ? AND tag_id = ?", courseID, tagID).First(&link).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tag is not attached to this course", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&link).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to detach tag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tag removed from course successfully!", nil)
}
