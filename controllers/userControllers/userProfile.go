package userController

import (
	"errors"
	"log"
	"mime/multipart"

	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/models"
	courseModels "kaifacademy/models/course"
	"kaifacademy/utils"
	"kaifacademy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the caller with their learning counters
func GetProfile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}

	var enrolled, completed, certificates int64
	db := database.Database.Db
	if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrolled).Error; err != nil {
		log.Printf("[PROFILE] Error counting enrollments for user %d: %v", user.ID, err)
	}
	if err := db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND completed_at IS NOT NULL", user.ID).Count(&completed).Error; err != nil {
		log.Printf("[PROFILE] Error counting completed courses for user %d: %v", user.ID, err)
	}
	if err := db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&certificates).Error; err != nil {
		log.Printf("[PROFILE] Error counting certificates for user %d: %v", user.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":             user,
		"enrolledCourses":  enrolled,
		"completedCourses": completed,
		"certificates":     certificates,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	updates := map[string]interface{}{}
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}
	if reqData.Avatar != nil {
		updates["avatar"] = *reqData.Avatar
	}

	if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("[PROFILE] Error updating user %d: %v", user.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile!")
	}
	if err := database.Database.Db.First(&user, user.ID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reload profile!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// UploadAvatar stores the uploaded image and points the profile at it
func UploadAvatar(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	file, ok := c.Locals("validatedFile").(*multipart.FileHeader)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	url, err := utils.SaveUploadedImage(file, "avatars")
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedImage) || errors.Is(err, utils.ErrImageTooLarge) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[PROFILE] Error saving avatar for user %d: %v", user.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload avatar!")
	}

	if err := database.Database.Db.Model(&user).Update("avatar", url).Error; err != nil {
		log.Printf("[PROFILE] Error updating avatar for user %d: %v", user.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update avatar!")
	}
	user.Avatar = url

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar uploaded successfully!", user)
}
