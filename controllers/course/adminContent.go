package controllers

import (
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

func AdminCreateLesson(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	lesson, err := services.CreateLesson(database.Database.Db, moduleID, services.LessonInput{
		Title:       reqData.Title,
		Description: reqData.Description,
		Content:     reqData.Content,
		VideoURL:    reqData.VideoURL,
		Duration:    reqData.Duration,
		Order:       reqData.Order,
		Type:        reqData.Type,
		IsPreview:   reqData.IsPreview,
	})
	if err != nil {
		return serviceError(c, err, "Failed to create lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func AdminUpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.UpdateLessonRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	lesson, err := services.UpdateLesson(database.Database.Db, lessonID, services.LessonUpdate{
		Title:       reqData.Title,
		Description: reqData.Description,
		Content:     reqData.Content,
		VideoURL:    reqData.VideoURL,
		Duration:    reqData.Duration,
		Order:       reqData.Order,
		Type:        reqData.Type,
		IsPreview:   reqData.IsPreview,
	})
	if err != nil {
		return serviceError(c, err, "Failed to update lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func AdminDeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	if err := services.DeleteLesson(database.Database.Db, lessonID); err != nil {
		return serviceError(c, err, "Failed to delete lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
