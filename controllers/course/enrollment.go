package controllers

import (
	"log"

	"kaifacademy/config"
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	"kaifacademy/utils"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller directly, without a payment step
func EnrollInCourse(c *fiber.Ctx) error {
	user, ok := authUser(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedEnrollment").(*courseValidator.EnrollRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	requirePayment := config.AppConfig.RequirePayment && !user.IsAdmin()
	enrollment, err := services.EnrollWithoutPayment(database.Database.Db, user.ID, reqData.CourseID, requirePayment)
	if err != nil {
		return serviceError(c, err, "Failed to enroll in course!")
	}

	log.Printf("[ENROLLMENT] User %d enrolled in course %d", user.ID, reqData.CourseID)
	utils.SendEnrollmentEmail(user.Email, user.Name, enrollment.Course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the caller's enrollments with live lesson counts
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}

	enrollments, err := services.ListEnrollments(database.Database.Db, userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch enrollments!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
