package services

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrPaymentRequired    = errors.New("payment is required for this course")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound     = errors.New("review not found")
	ErrForbidden          = errors.New("you can only delete your own reviews")
	ErrCourseNotCompleted = errors.New("course not completed, complete all lessons to get certificate")
	ErrCertificateMissing = errors.New("certificate not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrIdempotencyKeyUsed = errors.New("idempotency key already used for another course")
	ErrLoginRequired      = errors.New("please login to access this lesson")
	ErrAccessDenied       = errors.New("you must be enrolled in this course to access this content")
)
