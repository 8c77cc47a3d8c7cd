package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"kaifacademy/models"
	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
)

const recentReviewsLimit = 5

// RatingSummary aggregates the reviews of one course
type RatingSummary struct {
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// SummarizeRatings computes the mean rounded to one decimal and the count per star 1..5
func SummarizeRatings(ratings []int) RatingSummary {
	summary := RatingSummary{
		TotalReviews:       len(ratings),
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	if len(ratings) == 0 {
		return summary
	}

	sum := 0
	for _, r := range ratings {
		sum += r
		if _, ok := summary.RatingDistribution[r]; ok {
			summary.RatingDistribution[r]++
		}
	}
	summary.AverageRating = roundOneDecimal(float64(sum) / float64(len(ratings)))
	return summary
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// UpsertReview creates or updates the single review userID may hold for courseID.
// The boolean result is true when a new review was created.
func UpsertReview(db *gorm.DB, userID, courseID uint, rating int, comment string) (*courseModels.Review, bool, error) {
	if rating < 1 || rating > 5 {
		return nil, false, ErrInvalidRating
	}
	if _, err := FindEnrollment(db, userID, courseID); err != nil {
		return nil, false, err
	}

	var review courseModels.Review
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = courseModels.Review{UserID: userID, CourseID: courseID, Rating: rating, Comment: comment}
		err = db.Create(&review).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the row exists but was not visible: soft-deleted, or created by a concurrent request
			existing, restored, err := reviseExistingReview(db, userID, courseID, rating, comment)
			if err != nil {
				return nil, false, err
			}
			review = *existing
			created = restored
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("create review: %w", err)
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("load review: %w", err)
	default:
		if err := db.Model(&review).Updates(map[string]interface{}{
			"rating":  rating,
			"comment": comment,
		}).Error; err != nil {
			return nil, false, fmt.Errorf("update review: %w", err)
		}
		review.Rating = rating
		review.Comment = comment
	}

	var course courseModels.Course
	if err := db.Select("id", "title").First(&course, courseID).Error; err == nil {
		review.Course = &course
	}
	return &review, created, nil
}

// reviseExistingReview overwrites the stored review of userID for courseID. A soft-deleted
// row is brought back, which is reported as restored.
func reviseExistingReview(db *gorm.DB, userID, courseID uint, rating int, comment string) (*courseModels.Review, bool, error) {
	var review courseModels.Review
	if err := db.Unscoped().Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error; err != nil {
		return nil, false, fmt.Errorf("load existing review: %w", err)
	}
	restored := review.DeletedAt.Valid
	updates := map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}
	if restored {
		review.CreatedAt = time.Now()
		updates["deleted_at"] = nil
		updates["created_at"] = review.CreatedAt
	}
	if err := db.Unscoped().Model(&review).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("update existing review: %w", err)
	}
	review.Rating = rating
	review.Comment = comment
	review.DeletedAt = gorm.DeletedAt{}
	return &review, restored, nil
}

// CourseReviews lists every review of a course, newest first, with reviewer name and avatar
func CourseReviews(db *gorm.DB, courseID uint) ([]courseModels.Review, RatingSummary, error) {
	var reviews []courseModels.Review
	if err := db.Where("course_id = ?", courseID).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "avatar")
		}).
		Order("created_at desc, id desc").
		Find(&reviews).Error; err != nil {
		return nil, RatingSummary{}, fmt.Errorf("list reviews: %w", err)
	}

	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return reviews, SummarizeRatings(ratings), nil
}

// CourseRatingSummary aggregates ratings without loading review bodies
func CourseRatingSummary(db *gorm.DB, courseID uint) (RatingSummary, error) {
	var ratings []int
	if err := db.Model(&courseModels.Review{}).Where("course_id = ?", courseID).Pluck("rating", &ratings).Error; err != nil {
		return RatingSummary{}, fmt.Errorf("load ratings: %w", err)
	}
	return SummarizeRatings(ratings), nil
}

// DeleteReview removes a review. Only its author or an admin may do so.
func DeleteReview(db *gorm.DB, actor models.User, reviewID uint) error {
	var review courseModels.Review
	err := db.First(&review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("load review: %w", err)
	}

	if review.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	// hard delete so the (user, course) slot is free again
	if err := db.Unscoped().Delete(&review).Error; err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func recentReviews(db *gorm.DB, courseID uint) ([]courseModels.Review, error) {
	var reviews []courseModels.Review
	err := db.Where("course_id = ?", courseID).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "avatar")
		}).
		Order("created_at desc, id desc").
		Limit(recentReviewsLimit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	return reviews, nil
}
