package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationPaid      = "PAID"
	ReservationCanceled  = "CANCELED"
	ReservationCompleted = "COMPLETED"
)

type Reservation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"not null" json:"user_id"`
	ClassID   uuid.UUID  `gorm:"not null" json:"class_id"`
	SessionID *uuid.UUID `json:"session_id"`
	Date      string     `gorm:"size:10;not null" json:"date"`
	StartTime string     `gorm:"size:5;not null" json:"start_time"`

	Participants       int            `gorm:"not null;default:1" json:"participants"`
	ParticipantDetails datatypes.JSON `json:"participant_details,omitempty"`
	SpecialRequest     *string        `gorm:"type:text" json:"special_request"`
	Status             string         `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	User             User              `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Class            Class             `gorm:"foreignkey:ClassID" json:"class,omitempty"`
	Session          *ClassSession     `gorm:"foreignkey:SessionID" json:"session,omitempty"`
	Payment          *Payment          `gorm:"foreignkey:ReservationID" json:"payment,omitempty"`
	ProductPurchases []ProductPurchase `gorm:"foreignkey:ReservationID" json:"product_purchases,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
