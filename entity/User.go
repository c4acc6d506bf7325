package entity

import (
	"gorm.io/gorm"
)

// User is a staff account on the dashboard.
type User struct {
	gorm.Model
	Name     string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Password string `json:"-"`
	Role     string `gorm:"not null;default:staff" json:"role"` // staff | manager | admin
}
