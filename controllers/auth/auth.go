package authController

import (
	"fmt"
	"log"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/utils"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates the user plus its role profile in one transaction. A new
// teacher starts unapproved and triggers the admin notification mail with the
// approval link; the mail is best-effort.
func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email already registered", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
		IsActive: true,
		// Admins and students act immediately; teachers wait for sign-off.
		IsApproved: reqData.Role != models.RoleTeacher,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		switch reqData.Role {
		case models.RoleAdmin:
			return tx.Create(&models.Admin{
				UserID:    newUser.ID,
				FirstName: reqData.FirstName,
				LastName:  reqData.LastName,
			}).Error
		case models.RoleTeacher:
			return tx.Create(&models.Teacher{
				UserID:         newUser.ID,
				FirstName:      reqData.FirstName,
				LastName:       reqData.LastName,
				PhoneNumber:    reqData.PhoneNumber,
				LinkedInAcc:    reqData.LinkedInAcc,
				ProfilePicture: reqData.ProfilePicture,
			}).Error
		case models.RoleStudent:
			return tx.Create(&models.Student{
				UserID:         newUser.ID,
				FirstName:      reqData.FirstName,
				LastName:       reqData.LastName,
				ProfilePicture: reqData.ProfilePicture,
			}).Error
		}
		return nil
	})
	if err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	if reqData.Role == models.RoleTeacher {
		token, err := utils.GenerateTeacherApprovalToken(newUser.ID)
		if err != nil {
			log.Printf("Error generating teacher approval token: %v", err)
		} else {
			approveLink := fmt.Sprintf("%s/admin/teachers/approve?token=%s", config.AppConfig.AppBaseURL, token)
			utils.SendTeacherApprovalRequestEmail(
				config.AppConfig.AdminNotificationEmail,
				reqData.FirstName+" "+reqData.LastName,
				newUser.Email,
				approveLink,
			)
		}
	} else {
		utils.SendWelcomeEmail(newUser.Email, reqData.FirstName)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"id":    newUser.ID,
		"email": newUser.Email,
		"role":  newUser.Role,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User account is deactivated. Please contact support.", nil)
	}

	token, err := middleware.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"role":         user.Role,
	})
}

// Me returns the caller's account plus its role-specific profile fields.
func Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	info := fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}

	switch user.Role {
	case models.RoleAdmin:
		var admin models.Admin
		if err := db.Where("user_id = ?", user.ID).First(&admin).Error; err == nil {
			info["first_name"] = admin.FirstName
			info["last_name"] = admin.LastName
		}
	case models.RoleTeacher:
		var teacher models.Teacher
		if err := db.Where("user_id = ?", user.ID).First(&teacher).Error; err == nil {
			info["first_name"] = teacher.FirstName
			info["last_name"] = teacher.LastName
			info["phone_number"] = teacher.PhoneNumber
			info["linked_in_acc"] = teacher.LinkedInAcc
			info["profile_picture"] = teacher.ProfilePicture
			info["is_approved"] = user.IsApproved
		}
	case models.RoleStudent:
		var student models.Student
		if err := db.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
			info["first_name"] = student.FirstName
			info["last_name"] = student.LastName
			info["profile_picture"] = student.ProfilePicture
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", info)
}

// UpdateMe applies a partial profile update; absent fields stay unchanged.
func UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfileUpdate").(*authValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if reqData.Password != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
			if err != nil {
				return err
			}
			if err := tx.Model(user).Update("password", string(hashed)).Error; err != nil {
				return err
			}
		}

		switch user.Role {
		case models.RoleAdmin:
			updates := map[string]interface{}{}
			if reqData.FirstName != nil {
				updates["first_name"] = *reqData.FirstName
			}
			if reqData.LastName != nil {
				updates["last_name"] = *reqData.LastName
			}
			if len(updates) > 0 {
				return tx.Model(&models.Admin{}).Where("user_id = ?", user.ID).Updates(updates).Error
			}
		case models.RoleTeacher:
			updates := map[string]interface{}{}
			if reqData.FirstName != nil {
				updates["first_name"] = *reqData.FirstName
			}
			if reqData.LastName != nil {
				updates["last_name"] = *reqData.LastName
			}
			if reqData.PhoneNumber != nil {
				updates["phone_number"] = *reqData.PhoneNumber
			}
			if reqData.LinkedInAcc != nil {
				updates["linked_in_acc"] = *reqData.LinkedInAcc
			}
			if reqData.ProfilePicture != nil {
				updates["profile_picture"] = *reqData.ProfilePicture
			}
			if len(updates) > 0 {
				return tx.Model(&models.Teacher{}).Where("user_id = ?", user.ID).Updates(updates).Error
			}
		case models.RoleStudent:
			updates := map[string]interface{}{}
			if reqData.FirstName != nil {
				updates["first_name"] = *reqData.FirstName
			}
			if reqData.LastName != nil {
				updates["last_name"] = *reqData.LastName
			}
			if reqData.ProfilePicture != nil {
				updates["profile_picture"] = *reqData.ProfilePicture
			}
			if len(updates) > 0 {
				return tx.Model(&models.Student{}).Where("user_id = ?", user.ID).Updates(updates).Error
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", nil)
}

// DeleteMe removes the account and its profile row. No soft history is kept.
func DeleteMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case models.RoleAdmin:
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Admin{}).Error; err != nil {
				return err
			}
		case models.RoleTeacher:
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Teacher{}).Error; err != nil {
				return err
			}
		case models.RoleStudent:
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Student{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("student_id = ?", user.ID).Delete(&models.StudentCourse{}).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		log.Printf("Error deleting account: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully.", nil)
}

// UploadProfilePicture stores the uploaded image in the object store and
// saves its URL on the caller's profile.
func UploadProfilePicture(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Admin profiles have no picture!", nil)
	}

	file, err := c.FormFile("picture")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Picture file is required!", nil)
	}

	url, err := utils.UploadImage(file, "profile_pictures")
	if err != nil {
		log.Printf("Error uploading profile picture: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload picture!", nil)
	}

	db := database.Database.Db
	if user.Role == models.RoleTeacher {
		err = db.Model(&models.Teacher{}).Where("user_id = ?", user.ID).Update("profile_picture", url).Error
	} else {
		err = db.Model(&models.Student{}).Where("user_id = ?", user.ID).Update("profile_picture", url).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save picture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Picture uploaded successfully!", fiber.Map{
		"url": url,
	})
}
