package courseRoutes

import (
	controllers "kaifacademy/controllers/course"
	"kaifacademy/middleware"
	"kaifacademy/services"
	validators "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog and all student-facing routes. Orders are charged through gateway.
func SetupCourseRoutes(app *fiber.App, gateway services.PaymentGateway) {
	// Catalog (public)
	courseGroup := app.Group("/courses")
	courseGroup.Get("/", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWT, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/content", middleware.JWTMiddleware, middleware.LoadUser, validators.CourseID(), controllers.GetCourseContent)

	// Preview lessons are open, the rest need an enrollment
	app.Get("/lessons/:id", middleware.OptionalJWT, middleware.LoadOptionalUser, validators.LessonID(), controllers.GetLesson)

	enrollGroup := app.Group("/enrollments", middleware.JWTMiddleware, middleware.LoadUser)
	enrollGroup.Post("/", validators.EnrollCourse(), controllers.EnrollInCourse)
	enrollGroup.Get("/", controllers.GetEnrollments)

	progressGroup := app.Group("/progress", middleware.JWTMiddleware)
	progressGroup.Post("/", validators.RecordProgress(), controllers.RecordProgress)
	progressGroup.Get("/:courseId", validators.CourseIDParam(), controllers.GetUserProgress)

	reviewGroup := app.Group("/reviews")
	reviewGroup.Post("/", middleware.JWTMiddleware, validators.SubmitReview(), controllers.SubmitReview)
	reviewGroup.Get("/:courseId", validators.CourseIDParam(), controllers.GetCourseReviews)
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, middleware.LoadUser, validators.ReviewID(), controllers.DeleteReview)

	certGroup := app.Group("/certificates")
	certGroup.Post("/", middleware.JWTMiddleware, middleware.LoadUser, validators.IssueCertificate(), controllers.IssueCertificate)
	certGroup.Get("/", middleware.JWTMiddleware, controllers.GetUserCertificates)
	certGroup.Get("/:id", controllers.VerifyCertificate)

	orderGroup := app.Group("/orders", middleware.JWTMiddleware, middleware.LoadUser)
	orderGroup.Post("/", validators.CreateOrder(), controllers.CreateOrder(gateway))
	orderGroup.Get("/", controllers.GetOrders)
}
