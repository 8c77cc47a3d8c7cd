package course

import (
	"kaifacademy/models"

	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	UserID   uint         `json:"user_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	CourseID uint         `json:"course_id" gorm:"uniqueIndex:idx_review_user_course;not null;index"`
	Rating   int          `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string       `json:"comment" gorm:"type:text"`
	User     *models.User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course   *Course      `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
