package services

import (
	"errors"
	"fmt"
	"time"

	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
)

// EnrollmentSummary is an enrollment together with its lesson counts
type EnrollmentSummary struct {
	courseModels.Enrollment
	TotalLessons       int64 `json:"total_lessons"`
	CompletedLessons   int64 `json:"completed_lessons"`
	ProgressPercentage int   `json:"progress_percentage"`
}

// EnrollUser creates a zero-progress enrollment of userID in a published course.
// No payment verification happens here; see Checkout for the paid flow.
func EnrollUser(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	course, err := findPublishedCourse(db, courseID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		EnrolledAt: time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	enrollment.Course = course
	return &enrollment, nil
}

// EnrollWithoutPayment is the direct enrollment path. With requirePayment set, paid courses are
// refused with ErrPaymentRequired and must go through Checkout.
func EnrollWithoutPayment(db *gorm.DB, userID, courseID uint, requirePayment bool) (*courseModels.Enrollment, error) {
	if requirePayment {
		course, err := findPublishedCourse(db, courseID)
		if err != nil {
			return nil, err
		}
		if course.Price > 0 {
			return nil, ErrPaymentRequired
		}
	}
	return EnrollUser(db, userID, courseID)
}

// FindEnrollment returns the enrollment of userID in courseID or ErrNotEnrolled
func FindEnrollment(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	return &enrollment, nil
}

// IsEnrolled reports whether userID holds an enrollment in courseID
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	_, err := FindEnrollment(db, userID, courseID)
	if errors.Is(err, ErrNotEnrolled) {
		return false, nil
	}
	return err == nil, err
}

// ListEnrollments returns the user's enrollments, newest first, with live lesson counts
func ListEnrollments(db *gorm.DB, userID uint) ([]EnrollmentSummary, error) {
	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ?", userID).
		Preload("Course").
		Order("enrolled_at desc, id desc").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	result := make([]EnrollmentSummary, 0, len(enrollments))
	for _, e := range enrollments {
		total, err := countCourseLessons(db, e.CourseID)
		if err != nil {
			return nil, err
		}
		completed, err := countCompletedLessons(db, userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		result = append(result, EnrollmentSummary{
			Enrollment:         e,
			TotalLessons:       total,
			CompletedLessons:   completed,
			ProgressPercentage: ProgressPercentage(completed, total),
		})
	}
	return result, nil
}

func findPublishedCourse(db *gorm.DB, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return &course, nil
}

func findCourse(db *gorm.DB, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return &course, nil
}

// StudentEnrollment is an enrollment row on the admin course roster
type StudentEnrollment struct {
	courseModels.Enrollment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// CourseEnrollments pages through the students of a course, newest first. completed filters on
// progress 100 when set.
func CourseEnrollments(db *gorm.DB, courseID uint, completed *bool, page, limit int) ([]StudentEnrollment, int64, error) {
	if _, err := findCourse(db, courseID); err != nil {
		return nil, 0, err
	}

	query := db.Model(&courseModels.Enrollment{}).Where("enrollments.course_id = ?", courseID)
	if completed != nil {
		if *completed {
			query = query.Where("enrollments.progress >= ?", 100)
		} else {
			query = query.Where("enrollments.progress < ?", 100)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}

	var rows []StudentEnrollment
	if err := query.
		Select("enrollments.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Order("enrollments.enrolled_at desc, enrollments.id desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list course enrollments: %w", err)
	}
	return rows, total, nil
}
