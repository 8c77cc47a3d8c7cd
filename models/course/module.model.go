package course

import "gorm.io/gorm"

// Module represents an ordered section within a course
type Module struct {
	gorm.Model
	CourseID    uint     `json:"course_id" gorm:"index;not null"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       int      `json:"order" gorm:"column:sort_order;default:0"` // Module order in course
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}
