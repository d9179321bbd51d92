package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductPurchase records one line of an ancillary sale attached to a
// reservation. UnitPrice is the product price at purchase time.
type ProductPurchase struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReservationID uuid.UUID `gorm:"not null" json:"reservation_id"`
	ProductID     uuid.UUID `gorm:"not null" json:"product_id"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     float64   `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Total         float64   `gorm:"type:numeric(10,2);not null" json:"total"`

	Product Product `gorm:"foreignkey:ProductID" json:"product,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
