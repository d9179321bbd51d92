package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountCode is global when SchoolID is nil, otherwise it only applies
// to classes of that school. Codes are stored uppercase and matched
// case-insensitively.
type DiscountCode struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SchoolID   *uuid.UUID `json:"school_id"`
	Code       string     `gorm:"size:50;not null;unique" json:"code"`
	Percentage float64    `gorm:"type:numeric(5,2);not null" json:"percentage"`
	ValidFrom  time.Time  `gorm:"not null" json:"valid_from"`
	ValidTo    time.Time  `gorm:"not null" json:"valid_to"`
	MaxUses    *int       `json:"max_uses"`
	UsedCount  int        `gorm:"not null;default:0" json:"used_count"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`

	School *School `gorm:"foreignkey:SchoolID" json:"school,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
