package controllers

import (
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateModule appends a module to a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	module, err := services.CreateModule(database.Database.Db, courseID, services.ModuleInput{
		Title:       reqData.Title,
		Description: reqData.Description,
		Order:       reqData.Order,
	})
	if err != nil {
		return serviceError(c, err, "Failed to create module!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func AdminUpdateModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.UpdateModuleRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	module, err := services.UpdateModule(database.Database.Db, moduleID, reqData.Title, reqData.Description, reqData.Order)
	if err != nil {
		return serviceError(c, err, "Failed to update module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule removes a module together with its lessons
func AdminDeleteModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)

	if err := services.DeleteModule(database.Database.Db, moduleID); err != nil {
		return serviceError(c, err, "Failed to delete module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
