package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"surfschool_backend/models"
)

var ErrInvalidTransition = errors.New("invalid payment status transition")

// CanTransitionPayment reports whether a payment may move from one status
// to another. REFUNDED is terminal and reachable only from PAID; PAID may
// be corrected back to UNPAID or PENDING.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case models.PaymentUnpaid:
		return to == models.PaymentPending || to == models.PaymentPaid
	case models.PaymentPending:
		return to == models.PaymentPaid || to == models.PaymentUnpaid
	case models.PaymentPaid:
		return to == models.PaymentRefunded || to == models.PaymentUnpaid || to == models.PaymentPending
	}
	return false
}

// paymentSideEffects returns the induced reservation status (empty when
// the reservation is untouched) and the paidAt adjustments for a legal
// transition. Entering REFUNDED keeps paidAt: the money did settle.
func paymentSideEffects(from, to string) (reservationStatus string, setPaidAt, clearPaidAt bool) {
	switch {
	case to == models.PaymentRefunded:
		return models.ReservationCanceled, false, false
	case to == models.PaymentPaid:
		return models.ReservationPaid, true, false
	case from == models.PaymentPaid:
		return models.ReservationConfirmed, false, true
	}
	return "", false, false
}

// ApplyPaymentTransition moves a payment to a new status and applies the
// induced reservation update inside the caller's transaction.
func ApplyPaymentTransition(tx *gorm.DB, payment *models.Payment, to string) error {
	if !CanTransitionPayment(payment.Status, to) {
		return ErrInvalidTransition
	}

	reservationStatus, setPaidAt, clearPaidAt := paymentSideEffects(payment.Status, to)
	payment.Status = to
	if setPaidAt {
		now := time.Now()
		payment.PaidAt = &now
	}
	if clearPaidAt {
		payment.PaidAt = nil
	}

	if err := tx.Save(payment).Error; err != nil {
		return err
	}

	switch reservationStatus {
	case "":
		return nil
	case models.ReservationCanceled:
		// refund cancels through the same path an owner cancel takes,
		// so product stock is restored exactly once
		var reservation models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("ProductPurchases").
			First(&reservation, "id = ?", payment.ReservationID).Error; err != nil {
			return err
		}
		return cancelReservationTx(tx, &reservation)
	default:
		return tx.Model(&models.Reservation{}).
			Where("id = ?", payment.ReservationID).
			Update("status", reservationStatus).Error
	}
}
