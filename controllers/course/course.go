package controllers

import (
	"errors"
	"mime/multipart"

	"kaifacademy/database"
	"kaifacademy/middleware"
	"kaifacademy/services"
	"kaifacademy/utils"
	courseValidator "kaifacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists the published catalog
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	courses, pagination, err := services.ListCourses(database.Database.Db, services.CourseFilter{
		Category: reqData.Category,
		Level:    reqData.Level,
		Featured: reqData.Featured,
		Page:     reqData.Page,
		Limit:    reqData.Limit,
	})
	if err != nil {
		return serviceError(c, err, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": pagination,
	})
}

// GetCourseDetails returns the public course page. isEnrolled is filled when a valid token is sent.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var viewerID *uint
	if userID, ok := c.Locals("userId").(uint); ok {
		viewerID = &userID
	}

	detail, err := services.GetCourseDetail(database.Database.Db, courseID, viewerID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", detail)
}

func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.AdminCourseListRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	courses, pagination, err := services.ListCourses(database.Database.Db, services.CourseFilter{
		Category:           reqData.Category,
		Level:              reqData.Level,
		Featured:           reqData.Featured,
		Page:               reqData.Page,
		Limit:              reqData.Limit,
		IncludeUnpublished: true,
		Published:          reqData.Published,
	})
	if err != nil {
		return serviceError(c, err, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": pagination,
	})
}

func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	course, err := services.CreateCourse(database.Database.Db, services.CourseInput{
		Title:         reqData.Title,
		Description:   reqData.Description,
		ShortDesc:     reqData.ShortDesc,
		Thumbnail:     reqData.Thumbnail,
		Price:         reqData.Price,
		OriginalPrice: reqData.OriginalPrice,
		Category:      reqData.Category,
		Level:         reqData.Level,
		Duration:      reqData.Duration,
		Language:      reqData.Language,
		Tags:          reqData.Tags,
		IsPublished:   reqData.IsPublished,
		IsFeatured:    reqData.IsFeatured,
	})
	if err != nil {
		return serviceError(c, err, "Failed to create course!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	course, err := services.UpdateCourse(database.Database.Db, courseID, services.CourseUpdate{
		Title:         reqData.Title,
		Description:   reqData.Description,
		ShortDesc:     reqData.ShortDesc,
		Thumbnail:     reqData.Thumbnail,
		Price:         reqData.Price,
		OriginalPrice: reqData.OriginalPrice,
		Category:      reqData.Category,
		Level:         reqData.Level,
		Duration:      reqData.Duration,
		Language:      reqData.Language,
		Tags:          reqData.Tags,
		IsPublished:   reqData.IsPublished,
		IsFeatured:    reqData.IsFeatured,
	})
	if err != nil {
		return serviceError(c, err, "Failed to update course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	if err := services.DeleteCourse(database.Database.Db, courseID); err != nil {
		return serviceError(c, err, "Failed to delete course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminUploadThumbnail stores an image and points the course thumbnail at it
func AdminUploadThumbnail(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	file, ok := c.Locals("validatedFile").(*multipart.FileHeader)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	url, err := utils.SaveUploadedImage(file, "thumbnails")
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedImage) || errors.Is(err, utils.ErrImageTooLarge) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		return serviceError(c, err, "Failed to upload thumbnail!")
	}

	course, err := services.UpdateCourse(database.Database.Db, courseID, services.CourseUpdate{Thumbnail: &url})
	if err != nil {
		return serviceError(c, err, "Failed to update course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thumbnail uploaded successfully!", course)
}

// AdminGetCourseEnrollments lists the students of a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData := new(struct {
		Page      int   `query:"page"`
		Limit     int   `query:"limit"`
		Completed *bool `query:"completed"`
	})
	if err := c.QueryParser(reqData); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
	}
	if reqData.Page < 1 {
		reqData.Page = 1
	}
	if reqData.Limit < 1 || reqData.Limit > services.MaxPageSize {
		reqData.Limit = 10
	}

	enrollments, total, err := services.CourseEnrollments(database.Database.Db, courseID, reqData.Completed, reqData.Page, reqData.Limit)
	if err != nil {
		return serviceError(c, err, "Failed to fetch enrollments!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
