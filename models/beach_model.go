package models

import (
	"time"

	"github.com/google/uuid"
)

type Beach struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SchoolID uuid.UUID `gorm:"not null" json:"school_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Locality *string   `gorm:"size:100" json:"locality"`
	ImageURL *string   `gorm:"size:255" json:"image_url"`

	School School `gorm:"foreignkey:SchoolID" json:"school,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
