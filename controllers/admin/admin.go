package adminController

import (
	"log"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns all accounts with pagination.
func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{})

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func setUserActive(c *fiber.Ctx, active bool, message string) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	if err := database.Database.Db.Model(&user).Update("is_active", active).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}

// DeactivateUser soft-locks an account; the JWT middleware rejects it on the
// very next request.
func DeactivateUser(c *fiber.Ctx) error {
	return setUserActive(c, false, "User deactivated successfully!")
}

func ReactivateUser(c *fiber.Ctx) error {
	return setUserActive(c, true, "User reactivated successfully!")
}

// PendingTeachers lists teacher accounts still awaiting sign-off.
func PendingTeachers(c *fiber.Ctx) error {
	var teachers []models.Teacher
	err := database.Database.Db.
		Joins("JOIN users ON users.id = teachers.user_id").
		Where("users.role = ? AND users.is_approved = ?", models.RoleTeacher, false).
		Find(&teachers).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending teachers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending teachers fetched successfully!", fiber.Map{
		"teachers": teachers,
	})
}

func approveTeacherUser(userID uint) (*models.User, error) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND role = ?", userID, models.RoleTeacher).First(&user).Error; err != nil {
		return nil, err
	}
	if !user.IsApproved {
		if err := database.Database.Db.Model(&user).Update("is_approved", true).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// ApproveTeacher is the authenticated admin approval path.
func ApproveTeacher(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	user, err := approveTeacherUser(uint(userID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Teacher not found", nil)
	}

	var teacher models.Teacher
	if err := database.Database.Db.Where("user_id = ?", user.ID).First(&teacher).Error; err == nil {
		utils.SendTeacherApprovedEmail(user.Email, teacher.FirstName)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Teacher approved successfully!", nil)
}

// ApproveTeacherByToken is the unauthenticated capability endpoint behind
// the link mailed to the admin at teacher registration.
func ApproveTeacherByToken(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired approval token.", nil)
	}

	userID, err := utils.VerifyTeacherApprovalToken(tokenString)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired approval token.", nil)
	}

	user, err := approveTeacherUser(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Teacher not found", nil)
	}

	var teacher models.Teacher
	if err := database.Database.Db.Where("user_id = ?", user.ID).First(&teacher).Error; err == nil {
		utils.SendTeacherApprovedEmail(user.Email, teacher.FirstName)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Teacher approved successfully!", nil)
}

// ListAllCourses returns the unfiltered catalog, hidden courses included.
func ListAllCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.Database.Db.Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// CourseRatings traces the individual scores behind a course's aggregate
// rating.
func CourseRatings(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var course models.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	var enrollments []models.StudentCourse
	if err := database.Database.Db.
		Where("course_id = ? AND score IS NOT NULL", courseID).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ratings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ratings fetched successfully!", fiber.Map{
		"rating":      course.Rating,
		"enrollments": enrollments,
	})
}
