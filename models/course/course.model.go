package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// Course represents a catalog entry
type Course struct {
	gorm.Model
	Title         string         `json:"title" gorm:"not null"`
	Description   string         `json:"description" gorm:"type:text"`
	ShortDesc     string         `json:"short_desc"`
	Thumbnail     string         `json:"thumbnail"`
	Price         float64        `json:"price" gorm:"default:0"`
	OriginalPrice *float64       `json:"original_price"`
	Category      string         `json:"category" gorm:"size:100;index"`
	Level         string         `json:"level" gorm:"size:20;default:'BEGINNER';index"` // BEGINNER, INTERMEDIATE, ADVANCED
	Duration      int            `json:"duration" gorm:"default:0"`                     // duration in hours
	Language      string         `json:"language" gorm:"default:'Hindi'"`
	Tags          datatypes.JSON `json:"tags"`
	IsPublished   bool           `json:"is_published" gorm:"default:false;index"`
	IsFeatured    bool           `json:"is_featured" gorm:"default:false"`
	Modules       []Module       `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}
