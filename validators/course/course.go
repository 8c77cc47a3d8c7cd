package courseValidator

import (
	"strings"

	"kaifacademy/middleware"
	"kaifacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type CourseListRequest struct {
	Category string `query:"category" validate:"omitempty,max=100"`
	Level    string `query:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Featured *bool  `query:"featured"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type CreateCourseRequest struct {
	Title         string   `json:"title" validate:"required,notblank,min=3,max=200"`
	Description   string   `json:"description" validate:"required,notblank,min=5"`
	ShortDesc     string   `json:"shortDesc" validate:"max=300"`
	Thumbnail     string   `json:"thumbnail" validate:"omitempty,url"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	Category      string   `json:"category" validate:"required,notblank,max=100"`
	Level         string   `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration      int      `json:"duration" validate:"gte=0"`
	Language      string   `json:"language" validate:"max=50"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=50"`
	IsPublished   bool     `json:"isPublished"`
	IsFeatured    bool     `json:"isFeatured"`
}

type UpdateCourseRequest struct {
	Title         *string   `json:"title" validate:"omitempty,notblank,min=3,max=200"`
	Description   *string   `json:"description" validate:"omitempty,notblank,min=5"`
	ShortDesc     *string   `json:"shortDesc" validate:"omitempty,max=300"`
	Thumbnail     *string   `json:"thumbnail" validate:"omitempty,url"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64  `json:"originalPrice" validate:"omitempty,gte=0"`
	Category      *string   `json:"category" validate:"omitempty,notblank,max=100"`
	Level         *string   `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Duration      *int      `json:"duration" validate:"omitempty,gte=0"`
	Language      *string   `json:"language" validate:"omitempty,max=50"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=50"`
	IsPublished   *bool     `json:"isPublished"`
	IsFeatured    *bool     `json:"isFeatured"`
}

// CourseList validates the catalog filters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		reqData.Category = strings.TrimSpace(reqData.Category)

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.OriginalPrice != nil && *reqData.OriginalPrice < reqData.Price {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"originalPrice": "Original price cannot be lower than price!",
			})
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
