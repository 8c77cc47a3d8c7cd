package course

import (
	"time"

	"gorm.io/gorm"
)

// Progress tracks a user's completion of a single lesson
type Progress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID    uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null;index"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	WatchTime   int        `json:"watch_time" gorm:"default:0"` // seconds
	CompletedAt *time.Time `json:"completed_at"`
}

func (Progress) TableName() string { return "lesson_progress" }
