package models

import (
	"time"

	"github.com/google/uuid"
)

type Instructor struct {
	UserID   uuid.UUID `gorm:"primary_key" json:"user_id"`
	SchoolID uuid.UUID `gorm:"not null" json:"school_id"`
	Bio      *string   `gorm:"type:text" json:"bio"`
	PhotoURL *string   `gorm:"size:255" json:"photo_url"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	User   User   `gorm:"foreignkey:UserID" json:"user"`
	School School `gorm:"foreignkey:SchoolID" json:"school,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
