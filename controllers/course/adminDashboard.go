package controllers

import (
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboardStats returns platform totals, recent students and the top courses
func AdminDashboardStats(c *fiber.Ctx) error {
	stats, err := services.AdminStats(database.Database.Db)
	if err != nil {
		return serviceError(c, err, "Failed to fetch dashboard stats!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}
