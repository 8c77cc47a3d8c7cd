package controllers

import (
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourseContent returns the full lesson tree for enrolled users and admins
func GetCourseContent(c *fiber.Ctx) error {
	user, ok := authUser(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	courseID := c.Locals("courseID").(uint)

	content, err := services.CourseContent(database.Database.Db, user, courseID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch course content!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", content)
}

// GetLesson serves one lesson. Preview lessons need no token.
func GetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	lesson, err := services.GetLesson(database.Database.Db, lessonID, optionalUser(c))
	if err != nil {
		return serviceError(c, err, "Failed to fetch lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

// RecordProgress upserts the caller's progress on a lesson and returns the new course percentage
func RecordProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	progress, enrollment, err := services.RecordProgress(database.Database.Db, userID, reqData.LessonID, services.ProgressInput{
		Completed: reqData.Completed,
		WatchTime: reqData.WatchTime,
	})
	if err != nil {
		return serviceError(c, err, "Failed to update progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress":       progress,
		"courseProgress": enrollment.Progress,
		"completedAt":    enrollment.CompletedAt,
	})
}

// GetUserProgress returns modules and lessons of a course with the caller's progress rows
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	courseID := c.Locals("courseID").(uint)

	enrollment, err := services.FindEnrollment(database.Database.Db, userID, courseID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch progress!")
	}
	modules, err := services.CourseProgressTree(database.Database.Db, userID, courseID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"modules":    modules,
		"enrollment": enrollment,
	})
}
