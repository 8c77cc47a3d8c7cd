package controllers

import (
	"log"

	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SubmitReview creates the caller's review of a course or updates the existing one
func SubmitReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	review, created, err := services.UpsertReview(database.Database.Db, userID, reqData.CourseID, reqData.Rating, reqData.Comment)
	if err != nil {
		return serviceError(c, err, "Failed to submit review!")
	}

	if created {
		log.Printf("[REVIEW] User %d reviewed course %d with %d stars", userID, reqData.CourseID, reqData.Rating)
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// GetCourseReviews is public: all reviews of a course with the rating summary
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reviews, summary, err := services.CourseReviews(database.Database.Db, courseID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch reviews!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":            reviews,
		"averageRating":      summary.AverageRating,
		"totalReviews":       summary.TotalReviews,
		"ratingDistribution": summary.RatingDistribution,
	})
}

// DeleteReview lets the author or an admin remove a review
func DeleteReview(c *fiber.Ctx) error {
	user, ok := authUser(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reviewID := c.Locals("reviewID").(uint)

	if err := services.DeleteReview(database.Database.Db, user, reviewID); err != nil {
		return serviceError(c, err, "Failed to delete review!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}
