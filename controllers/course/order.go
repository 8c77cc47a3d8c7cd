package controllers

import (
	"errors"
	"log"

	"kaifacademy/config"
	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	"kaifacademy/utils"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateOrder runs checkout for a course through gateway: order, charge, enrollment
func CreateOrder(gateway services.PaymentGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return createOrder(c, gateway)
	}
}

func createOrder(c *fiber.Ctx, gateway services.PaymentGateway) error {
	user, ok := authUser(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedOrder").(*courseValidator.OrderRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	result, err := services.Checkout(c.UserContext(), database.Database.Db, gateway, services.CheckoutInput{
		UserID:         user.ID,
		CourseID:       reqData.CourseID,
		IdempotencyKey: reqData.IdempotencyKey,
		Currency:       config.AppConfig.Currency,
	})
	if errors.Is(err, services.ErrPaymentFailed) && result != nil {
		log.Printf("[CHECKOUT] Payment failed for user %d, order %d: %s", user.ID, result.Order.ID, result.Order.FailureReason)
		if course := result.Order.Course; course != nil {
			utils.SendPaymentFailedEmail(user.Email, user.Name, course.Title, result.Order.FailureReason)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  false,
			"message": "Payment failed!",
			"error":   "Payment failed!",
			"data":    result,
		})
	}
	if err != nil {
		return serviceError(c, err, "Failed to process order!")
	}

	if result.Replayed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Order already processed!", result)
	}

	log.Printf("[CHECKOUT] User %d paid order %d for course %d", user.ID, result.Order.ID, reqData.CourseID)
	if result.Order.Course != nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, result.Order.Course.Title)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment successful, you are enrolled!", result)
}

func GetOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}

	orders, err := services.ListOrders(database.Database.Db, userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch orders!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", orders)
}
