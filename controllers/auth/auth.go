package authController

import (
	"errors"
	"log"
	"math"
	"time"

	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/models"
	"kaifacademy/utils"
	authValidator "kaifacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	loginBlockTime  = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var existing models.User
	err := database.Database.Db.Where("email = ?", reqData.Email).First(&existing).Error
	if err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, "Email is already registered!")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[AUTH] Error checking email %s: %v", reqData.Email, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error while checking email!")
	}

	hashedPassword, err := utils.HashPassword(reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password!")
	}

	user := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Phone:    reqData.Phone,
		Password: hashedPassword,
		Role:     models.RoleStudent,
	}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "Email is already registered!")
		}
		log.Printf("[AUTH] Error creating user %s: %v", reqData.Email, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user!")
	}

	utils.SendWelcomeEmail(user.Email, user.Name)
	if err := issueOTP(user, "Email verification OTP"); err != nil {
		log.Printf("[AUTH] Error creating verification OTP for user %d: %v", user.ID, err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully. Verify your email with the OTP sent.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login checks the credentials and blocks the account for a while after repeated failures
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var user models.User
	err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password!")
	}
	if err != nil {
		log.Printf("[AUTH] Error loading user %s: %v", reqData.Email, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error while logging in!")
	}

	now := time.Now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		minutes := int(math.Ceil(user.BlockedUntil.Sub(now).Minutes()))
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account temporarily blocked due to failed login attempts!", fiber.Map{
			"retryAfterMinutes": minutes,
		})
	}

	if !utils.CheckPassword(user.Password, reqData.Password) {
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     now,
		}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["blocked_until"] = now.Add(loginBlockTime)
			updates["failed_login_attempts"] = 0
			log.Printf("[AUTH] User %d blocked until %s after %d failed logins", user.ID, now.Add(loginBlockTime).Format(time.RFC3339), maxFailedLogins)
		}
		if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("[AUTH] Error recording failed login for user %d: %v", user.ID, err)
		}
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password!")
	}

	if err := database.Database.Db.Model(&user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"blocked_until":         nil,
		"last_login":            now,
	}).Error; err != nil {
		log.Printf("[AUTH] Error updating last login for user %d: %v", user.ID, err)
	}
	user.LastLogin = &now

	tracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := database.Database.Db.Create(&tracking).Error; err != nil {
		log.Printf("[AUTH] Error saving login tracking for user %d: %v", user.ID, err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedLoginHistory").(*authValidator.PageRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var total int64
	var history []models.LoginTracking
	query := database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[AUTH] Error counting login history for user %d: %v", userID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch login history!")
	}
	offset := (reqData.Page - 1) * reqData.Limit
	if err := query.Order("timestamp desc").Offset(offset).Limit(reqData.Limit).Find(&history).Error; err != nil {
		log.Printf("[AUTH] Error fetching login history for user %d: %v", userID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch login history!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", fiber.Map{
		"history": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
			"pages": int(math.Ceil(float64(total) / float64(reqData.Limit))),
		},
	})
}

// SendOTP mails a fresh verification code to a registered address
func SendOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SendOTPRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "User not found!")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Server error while sending OTP!")
	}
	if user.IsVerified {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Email is already verified!")
	}

	if err := issueOTP(user, "Email verification OTP"); err != nil {
		log.Printf("[AUTH] Error creating OTP for user %d: %v", user.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create OTP!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.VerifyOTPRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "User not found!")
	}

	var otpRecord models.OTP
	err := database.Database.Db.
		Where("user_id = ? AND code = ? AND is_used = ?", user.ID, reqData.Code, false).
		Order("created_at desc").
		First(&otpRecord).Error
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid OTP or OTP expired!")
	}
	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "OTP has expired!")
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&otpRecord).Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("is_verified", true).Error
	})
	if err != nil {
		log.Printf("[AUTH] Error verifying OTP for user %d: %v", user.ID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user verification status!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully!", nil)
}

func ChangeLoginPassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid user session!")
	}
	reqData, ok := c.Locals("validatedUser").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "User not found!")
	}
	if !utils.CheckPassword(user.Password, reqData.CurrentPassword) {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Current password is incorrect!")
	}

	hashedPassword, err := utils.HashPassword(reqData.NewPassword)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password!")
	}
	if err := database.Database.Db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		log.Printf("[AUTH] Error updating password for user %d: %v", userID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update password!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func issueOTP(user models.User, description string) error {
	otp := utils.GenerateOTP()
	record := models.OTP{
		UserID:      user.ID,
		Email:       user.Email,
		Code:        otp,
		ExpiresAt:   time.Now().Add(utils.OTPValidity),
		Description: description,
	}
	if err := database.Database.Db.Create(&record).Error; err != nil {
		return err
	}
	utils.SendOTPEmail(otp, user.Email, user.Name)
	return nil
}
