package courseValidator

import (
	"strings"

	"kaifacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	CourseID uint `json:"courseId" validate:"required,min=1"`
}

type ProgressRequest struct {
	LessonID  uint  `json:"lessonId" validate:"required,min=1"`
	Completed *bool `json:"completed"`
	WatchTime *int  `json:"watchTime" validate:"omitempty,min=0"`
}

type ReviewRequest struct {
	CourseID uint   `json:"courseId" validate:"required,min=1"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

type CertificateRequest struct {
	CourseID uint `json:"courseId" validate:"required,min=1"`
}

type OrderRequest struct {
	CourseID       uint   `json:"courseId" validate:"required,min=1"`
	IdempotencyKey string `json:"idempotencyKey" validate:"omitempty,max=100"`
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

func RecordProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func SubmitReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Comment = strings.TrimSpace(reqData.Comment)

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

func IssueCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CertificateRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedCertificate", reqData)
		return c.Next()
	}
}

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OrderRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.IdempotencyKey = strings.TrimSpace(reqData.IdempotencyKey)
		if reqData.IdempotencyKey == "" {
			reqData.IdempotencyKey = strings.TrimSpace(c.Get("Idempotency-Key"))
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}
