package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SchoolID    uuid.UUID  `gorm:"not null" json:"school_id"`
	BeachID     *uuid.UUID `json:"beach_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Level       string     `gorm:"size:30;not null;default:'beginner'" json:"level"`
	Duration    int        `gorm:"not null;default:60" json:"duration"`
	Capacity    int        `gorm:"not null;default:1" json:"capacity"`
	Price       float64    `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL    *string    `gorm:"size:255" json:"image_url"`

	School School `gorm:"foreignkey:SchoolID" json:"school,omitempty"`
	Beach  *Beach `gorm:"foreignkey:BeachID" json:"beach,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
