package models

import (
	"time"

	"github.com/google/uuid"
)

type School struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;unique" json:"owner_id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	City    *string   `gorm:"size:100" json:"city"`
	Phone   *string   `gorm:"size:30" json:"phone"`
	LogoURL *string   `gorm:"size:255" json:"logo_url"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
