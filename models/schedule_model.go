package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassSchedule is a standing weekly slot: weekday 0 (Sunday) through 6,
// times as "15:04" strings, no concrete date.
type ClassSchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ClassID   uuid.UUID `gorm:"not null" json:"class_id"`
	Weekday   int       `gorm:"not null" json:"weekday"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	Class Class `gorm:"foreignkey:ClassID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
