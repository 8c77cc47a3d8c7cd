package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	courseModels "kaifacademy/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressInput carries the optional fields of a progress update. Nil fields are left untouched.
type ProgressInput struct {
	Completed *bool
	WatchTime *int
}

// ProgressPercentage is round(100 * completed / total), 0 for a course without lessons
func ProgressPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// RecordProgress upserts the (userID, lessonID) progress row and recomputes the enrollment percentage
// of the lesson's course.
func RecordProgress(db *gorm.DB, userID, lessonID uint, in ProgressInput) (*courseModels.Progress, *courseModels.Enrollment, error) {
	lesson, err := findLesson(db, lessonID)
	if err != nil {
		return nil, nil, err
	}
	courseID := lesson.Module.CourseID

	if _, err := FindEnrollment(db, userID, courseID); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	row := courseModels.Progress{UserID: userID, LessonID: lessonID}
	columns := []string{"updated_at"}
	if in.Completed != nil {
		row.Completed = *in.Completed
		if row.Completed {
			row.CompletedAt = &now
		}
		columns = append(columns, "completed", "completed_at")
	}
	if in.WatchTime != nil {
		row.WatchTime = *in.WatchTime
		columns = append(columns, "watch_time")
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error; err != nil {
		return nil, nil, fmt.Errorf("upsert progress: %w", err)
	}

	var saved courseModels.Progress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&saved).Error; err != nil {
		return nil, nil, fmt.Errorf("reload progress: %w", err)
	}

	enrollment, err := RecomputeCourseProgress(db, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	return &saved, enrollment, nil
}

// RecomputeCourseProgress recounts completed vs total lessons and persists the enrollment percentage.
// CompletedAt is stamped the first time the percentage reaches 100 and cleared if it falls below.
func RecomputeCourseProgress(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	enrollment, err := FindEnrollment(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	total, err := countCourseLessons(db, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := countCompletedLessons(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	percentage := ProgressPercentage(completed, total)

	updates := map[string]interface{}{"progress": percentage}
	switch {
	case percentage == 100 && enrollment.CompletedAt == nil:
		now := time.Now()
		updates["completed_at"] = now
		enrollment.CompletedAt = &now
	case percentage < 100 && enrollment.CompletedAt != nil:
		updates["completed_at"] = nil
		enrollment.CompletedAt = nil
	}

	if err := db.Model(enrollment).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update enrollment progress: %w", err)
	}
	enrollment.Progress = percentage
	return enrollment, nil
}

// RecomputeAllProgress recounts every enrollment. Used by the nightly reconciliation job after
// lessons were added or removed.
func RecomputeAllProgress(db *gorm.DB) (updated int, err error) {
	var enrollments []courseModels.Enrollment
	if err := db.Select("id", "user_id", "course_id", "progress").Find(&enrollments).Error; err != nil {
		return 0, fmt.Errorf("list enrollments: %w", err)
	}
	for _, e := range enrollments {
		fresh, err := RecomputeCourseProgress(db, e.UserID, e.CourseID)
		if err != nil {
			return updated, err
		}
		if fresh.Progress != e.Progress {
			updated++
		}
	}
	return updated, nil
}

func countCourseLessons(db *gorm.DB, courseID uint) (int64, error) {
	var total int64
	err := db.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return total, nil
}

func countCompletedLessons(db *gorm.DB, userID, courseID uint) (int64, error) {
	var completed int64
	err := db.Model(&courseModels.Progress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("lesson_progress.user_id = ? AND lesson_progress.completed = ? AND modules.course_id = ?", userID, true, courseID).
		Count(&completed).Error
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return completed, nil
}

func findLesson(db *gorm.DB, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := db.Preload("Module").First(&lesson, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && lesson.Module == nil) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lesson %d: %w", lessonID, err)
	}
	return &lesson, nil
}
