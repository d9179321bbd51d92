package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassSession is a concrete-date exception to the weekly pattern: a
// capacity/price override, a cancelled occurrence, or a one-off session.
// Nil Capacity/Price fall back to the Class defaults.
type ClassSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ClassID   uuid.UUID `gorm:"not null;uniqueIndex:idx_class_sessions_slot" json:"class_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_class_sessions_slot" json:"date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_class_sessions_slot" json:"start_time"`
	Capacity  *int      `json:"capacity"`
	Price     *float64  `gorm:"type:numeric(10,2)" json:"price"`
	IsClosed  bool      `gorm:"default:false" json:"is_closed"`

	Class Class `gorm:"foreignkey:ClassID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
