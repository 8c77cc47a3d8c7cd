package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	Name       string     `json:"name" gorm:"default:''"`
	Email      string     `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Phone      string     `json:"phone" gorm:"default:''"`
	Avatar     string     `json:"avatar" gorm:"default:''"`
	Role       string     `json:"role" gorm:"size:20;default:'STUDENT';index"` // STUDENT, ADMIN
	Password   string     `json:"-" gorm:"not null"`
	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	LastLogin  *time.Time `json:"last_login"`

	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
