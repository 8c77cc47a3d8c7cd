package userValidator

import (
	"strings"

	"kaifacademy/middleware"
	"kaifacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,notblank,min=2,max=100"`
	Phone  *string `json:"phone" validate:"omitempty,numeric,len=10"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.Name == nil && reqData.Phone == nil && reqData.Avatar == nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Nothing to update!")
		}
		if reqData.Name != nil {
			name := strings.TrimSpace(*reqData.Name)
			reqData.Name = &name
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// UploadImage checks that the multipart form carries an image file under field
func UploadImage(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(field)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{field: "Image file is required!"})
		}
		c.Locals("validatedFile", file)
		return c.Next()
	}
}
