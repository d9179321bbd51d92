package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentUnpaid   = "UNPAID"
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReservationID  uuid.UUID  `gorm:"not null;unique" json:"reservation_id"`
	Amount         float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	OriginalAmount float64    `gorm:"type:numeric(10,2);not null" json:"original_amount"`
	DiscountCodeID *uuid.UUID `json:"discount_code_id"`
	DiscountAmount float64    `gorm:"type:numeric(10,2);default:0" json:"discount_amount"`
	Status         string     `gorm:"size:20;not null;default:'UNPAID'" json:"status"`
	Method         *string    `gorm:"size:50" json:"method"`
	TransactionID  *string    `gorm:"size:255" json:"transaction_id"`
	PaidAt         *time.Time `json:"paid_at"`

	DiscountCode *DiscountCode `gorm:"foreignkey:DiscountCodeID" json:"discount_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
