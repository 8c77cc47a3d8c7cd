package middleware

import (
	"errors"
	"log"

	"kaifacademy/database"
	"kaifacademy/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// currentUser returns the user stored by a previous LoadUser or reads it from the database
func currentUser(c *fiber.Ctx) (models.User, int, string) {
	if user, ok := c.Locals("user").(models.User); ok {
		return user, 0, ""
	}
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return models.User{}, fiber.StatusUnauthorized, "Unauthorized!"
	}

	var user models.User
	err := database.Database.Db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fiber.StatusUnauthorized, "User not found!"
	}
	if err != nil {
		log.Printf("[AUTH] Error loading user %d: %v", userID, err)
		return models.User{}, fiber.StatusInternalServerError, "Server error while loading user!"
	}
	c.Locals("user", user)
	return user, 0, ""
}

// LoadUser fetches the authenticated user into c.Locals("user"). Must run after JWTMiddleware.
func LoadUser(c *fiber.Ctx) error {
	if _, status, msg := currentUser(c); status != 0 {
		return ErrorResponse(c, status, msg)
	}
	return c.Next()
}

// LoadOptionalUser is LoadUser for routes behind OptionalJWT: anonymous callers pass untouched
func LoadOptionalUser(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return c.Next()
	}
	return LoadUser(c)
}

// AdminOnly rejects callers whose stored role is not ADMIN. The role is read from the
// database, not the token, so demoted admins lose access immediately.
func AdminOnly(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if status != 0 {
		return ErrorResponse(c, status, msg)
	}
	if !user.IsAdmin() {
		return ErrorResponse(c, fiber.StatusForbidden, "Admin access required!")
	}
	return c.Next()
}
