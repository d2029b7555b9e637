package controllers

import (
	"fmt"
	"log"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services"
	"learnhub/utils"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Subscribe files a PENDING enrollment request for a premium course and
// notifies the owner with a signed approval link. The response returns as
// soon as the row is committed; approval happens out-of-band.
func Subscribe(c *fiber.Ctx) error {
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
		_, course, err = services.Subscribe(tx, user, uint(courseID))
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	// Owner notification is best-effort: the PENDING row is already
	// committed and stays authoritative even if the mail never arrives.
	token, err := utils.GenerateEnrollmentApprovalToken(user.ID, course.ID)
	if err != nil {
		log.Printf("Error generating enrollment approval token: %v", err)
	} else {
		var owner models.User
		if err := database.Database.Db.First(&owner, course.OwnerID).Error; err == nil {
			approveLink := fmt.Sprintf("%s/course/enrollment/approve?token=%s", config.AppConfig.AppBaseURL, token)
			utils.SendEnrollmentRequestEmail(owner.Email, studentName(user.ID), course.Title, approveLink)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Approval request sent to the course owner.", nil)
}

func studentName(userID uint) string {
	var student models.Student
	if err := database.Database.Db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return "A student"
	}
	return student.FirstName + " " + student.LastName
}

// ApproveStudent is the authenticated approval path for the course owner.
func ApproveStudent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	studentID, err2 := c.ParamsInt("studentId")
	if err != nil || err2 != nil || courseID < 1 || studentID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course or student id!", nil)
	}

	var course *models.Course
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.ApproveStudentByOwner(tx, user, uint(studentID), uint(courseID))
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	var student models.User
	if err := database.Database.Db.First(&student, studentID).Error; err == nil {
		utils.SendEnrollmentApprovedEmail(student.Email, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student approved and enrolled in '"+course.Title+"'.", nil)
}

// ApproveStudentByToken is the unauthenticated capability endpoint behind
// the approval link: the token's signature is the authorization. Tamper and
// expiry surface as the same message, deliberately.
func ApproveStudentByToken(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired approval token.", nil)
	}

	studentID, courseID, err := utils.VerifyEnrollmentApprovalToken(tokenString)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired approval token.", nil)
	}

	var course *models.Course
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.ApproveStudent(tx, studentID, courseID)
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	var student models.User
	if err := database.Database.Db.First(&student, studentID).Error; err == nil {
		utils.SendEnrollmentApprovedEmail(student.Email, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student approved and enrolled in '"+course.Title+"'.", nil)
}

func Unsubscribe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return services.Unsubscribe(tx, user.ID, uint(courseID))
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unsubscribed from course successfully!", nil)
}

// PendingStudents lists a course's pending enrollment requests for its
// owner.
func PendingStudents(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	pending, err := services.PendingStudents(database.Database.Db, user, uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending students fetched successfully!", fiber.Map{
		"pending": pending,
	})
}

// RemoveStudent drops a student from a course (owner or admin).
func RemoveStudent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	studentID, err2 := c.ParamsInt("studentId")
	if err != nil || err2 != nil || courseID < 1 || studentID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course or student id!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return services.RemoveStudent(tx, user, uint(courseID), uint(studentID))
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student removed from course successfully!", nil)
}

// ToggleFavorite flips the favorite flag on the caller's enrollment row,
// creating a pending row when none exists yet.
func ToggleFavorite(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var enrollment *models.StudentCourse
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = services.ToggleFavorite(tx, user, uint(courseID))
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorite updated successfully!", enrollment)
}

// RateCourse stores the caller's score and returns the recomputed course
// rating.
func RateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData, ok := c.Locals("validatedRating").(*courseValidator.RateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course *models.Course
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = services.RateCourse(tx, user, uint(courseID), *reqData.Score)
		return err
	})
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating saved successfully!", fiber.Map{
		"rating": course.Rating,
	})
}

// MyEnrollments lists the caller's enrollment rows.
func MyEnrollments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []models.StudentCourse
	if err := database.Database.Db.Where("student_id = ?", user.ID).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
	})
}
