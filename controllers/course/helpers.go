package controllers

import (
	"errors"
	"log"

	"kaifacademy/middleware"
	"kaifacademy/models"
	"kaifacademy/services"
	"kaifacademy/utils"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps domain errors to their HTTP status. Anything unknown is a 500 that is
// logged and reported, and the client only sees fallback.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrCertificateMissing),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrCourseNotCompleted),
		errors.Is(err, services.ErrPaymentRequired),
		errors.Is(err, services.ErrPaymentFailed):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, services.ErrNotEnrolled),
		errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccessDenied):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, capitalize(err.Error()))
	case errors.Is(err, services.ErrIdempotencyKeyUsed):
		return middleware.ErrorResponse(c, fiber.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrLoginRequired):
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, capitalize(err.Error()))
	}

	log.Printf("[COURSE] %s %s: %v", c.Method(), c.Path(), err)
	utils.ReportError(err, map[string]interface{}{"method": c.Method(), "path": c.Path()})
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, fallback)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:] + "!"
	}
	return s + "!"
}

// authUser returns the user put in c.Locals by middleware.LoadUser
func authUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}

// optionalUser is authUser for routes where a token is optional
func optionalUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(models.User); ok {
		return &user
	}
	return nil
}
