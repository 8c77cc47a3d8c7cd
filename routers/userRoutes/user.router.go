package userProfileRoutes

import (
	userProfileController "kaifacademy/controllers/userControllers"
	"kaifacademy/middleware"
	userProfileValidator "kaifacademy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware, middleware.LoadUser)

	userGroup.Get("/profile", userProfileController.GetProfile)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Post("/avatar", userProfileValidator.UploadImage("avatar"), userProfileController.UploadAvatar)
}
