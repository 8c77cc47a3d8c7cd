package courseValidator

import (
	"kaifacademy/middleware"
	"kaifacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type ModuleRequest struct {
	Title       string `json:"title" validate:"required,notblank,min=2,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Order       *int   `json:"order" validate:"omitempty,min=0"`
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

type LessonRequest struct {
	Title       string `json:"title" validate:"required,notblank,min=2,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Content     string `json:"content"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
	Duration    int    `json:"duration" validate:"gte=0"`
	Order       *int   `json:"order" validate:"omitempty,min=0"`
	Type        string `json:"type" validate:"omitempty,oneof=VIDEO TEXT"`
	IsPreview   bool   `json:"isPreview"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Content     *string `json:"content"`
	VideoURL    *string `json:"videoUrl" validate:"omitempty,url"`
	Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
	Type        *string `json:"type" validate:"omitempty,oneof=VIDEO TEXT"`
	IsPreview   *bool   `json:"isPreview"`
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModuleRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateModuleRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		// a video lesson needs a video, a text lesson needs a body
		switch {
		case (reqData.Type == "" || reqData.Type == "VIDEO") && reqData.VideoURL == "":
			return middleware.ValidationErrorResponse(c, map[string]string{"videoUrl": "Video URL is required for video lessons!"})
		case reqData.Type == "TEXT" && reqData.Content == "":
			return middleware.ValidationErrorResponse(c, map[string]string{"content": "Content is required for text lessons!"})
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLessonRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
