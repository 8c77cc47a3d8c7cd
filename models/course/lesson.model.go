package course

import "gorm.io/gorm"

const (
	LessonTypeVideo = "VIDEO"
	LessonTypeText  = "TEXT"
)

// Lesson is a content unit within a module
type Lesson struct {
	gorm.Model
	ModuleID    uint    `json:"module_id" gorm:"index;not null"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content" gorm:"type:text"` // For TEXT type, or notes under a video
	VideoURL    string  `json:"video_url"`
	Duration    int     `json:"duration" gorm:"default:0"`                // minutes
	Order       int     `json:"order" gorm:"column:sort_order;default:0"` // Order within module
	Type        string  `json:"type" gorm:"size:20;default:'VIDEO'"`      // VIDEO, TEXT
	IsPreview   bool    `json:"is_preview" gorm:"default:false"`
	Module      *Module `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
}
