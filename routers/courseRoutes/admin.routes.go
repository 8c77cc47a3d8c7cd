package courseRoutes

import (
	controllers "kaifacademy/controllers/course"
	"kaifacademy/middleware"
	validators "kaifacademy/validators/course"
	userValidator "kaifacademy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course authoring and the admin dashboard
func SetupAdminCourseRoutes(app *fiber.App) {
	admin := []fiber.Handler{middleware.JWTMiddleware, middleware.AdminOnly}
	with := func(handlers ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, admin...), handlers...)
	}

	// Course CRUD
	app.Post("/courses", with(validators.CreateCourse(), controllers.AdminCreateCourse)...)
	app.Put("/courses/:id", with(validators.CourseID(), validators.UpdateCourse(), controllers.AdminUpdateCourse)...)
	app.Delete("/courses/:id", with(validators.CourseID(), controllers.AdminDeleteCourse)...)
	app.Post("/courses/:id/thumbnail", with(validators.CourseID(), userValidator.UploadImage("thumbnail"), controllers.AdminUploadThumbnail)...)

	// Modules
	app.Post("/courses/:id/modules", with(validators.CourseID(), validators.CreateModule(), controllers.AdminCreateModule)...)
	app.Put("/modules/:id", with(validators.ModuleID(), validators.UpdateModule(), controllers.AdminUpdateModule)...)
	app.Delete("/modules/:id", with(validators.ModuleID(), controllers.AdminDeleteModule)...)

	// Lessons
	app.Post("/modules/:id/lessons", with(validators.ModuleID(), validators.CreateLesson(), controllers.AdminCreateLesson)...)
	app.Put("/lessons/:id", with(validators.LessonID(), validators.UpdateLesson(), controllers.AdminUpdateLesson)...)
	app.Delete("/lessons/:id", with(validators.LessonID(), controllers.AdminDeleteLesson)...)

	// Dashboard
	adminGroup := app.Group("/admin", admin...)
	adminGroup.Get("/stats", controllers.AdminDashboardStats)
	adminGroup.Get("/courses", validators.AdminCourseList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/courses/:id/enrollments", validators.CourseID(), controllers.AdminGetCourseEnrollments)
}
