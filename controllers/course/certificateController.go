package controllers

import (
	"errors"
	"log"

	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	"kaifacademy/utils"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificate issues the completion certificate, or returns the one already issued
func IssueCertificate(c *fiber.Ctx) error {
	user, ok := authUser(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}
	reqData, ok := c.Locals("validatedCertificate").(*courseValidator.CertificateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	certificate, created, err := services.IssueCertificate(database.Database.Db, user.ID, reqData.CourseID)
	if errors.Is(err, services.ErrNotEnrolled) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Enrollment not found!")
	}
	if err != nil {
		return serviceError(c, err, "Failed to issue certificate!")
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", certificate)
	}

	log.Printf("[CERTIFICATE] Issued %s to user %d for course %d", certificate.CertificateNumber, user.ID, reqData.CourseID)
	if found, err := services.GetCertificate(database.Database.Db, certificate.CertificateNumber); err == nil && found.Course != nil {
		utils.SendCertificateEmail(user.Email, user.Name, found.Course.Title, certificate.CertificateNumber)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", certificate)
}

// GetUserCertificates lists the caller's certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized!")
	}

	certificates, err := services.ListCertificates(database.Database.Db, userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// VerifyCertificate is the public lookup by id or certificate number
func VerifyCertificate(c *fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Certificate reference is required!")
	}

	certificate, err := services.GetCertificate(database.Database.Db, ref)
	if err != nil {
		return serviceError(c, err, "Failed to fetch certificate!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", certificate)
}
