package courseValidator

import (
	"kaifacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type AdminCourseListRequest struct {
	Category  string `query:"category" validate:"omitempty,max=100"`
	Level     string `query:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Featured  *bool  `query:"featured"`
	Published *bool  `query:"published"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// AdminCourseList validates the admin listing, which also sees drafts
func AdminCourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AdminCourseListRequest)
		if ok, err := validators.Query(c, reqData); !ok {
			return err
		}
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// CourseID, ModuleID and LessonID validate the :id route parameter
func CourseID() fiber.Handler { return validators.IDParam("id", "courseID", "Course") }

func ModuleID() fiber.Handler { return validators.IDParam("id", "moduleID", "Module") }

func LessonID() fiber.Handler { return validators.IDParam("id", "lessonID", "Lesson") }

func ReviewID() fiber.Handler { return validators.IDParam("id", "reviewID", "Review") }

// CourseIDParam reads :courseId, used by the progress and review listings
func CourseIDParam() fiber.Handler { return validators.IDParam("courseId", "courseID", "Course") }
