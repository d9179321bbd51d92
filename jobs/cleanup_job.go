package jobs

import (
	"log"
	"strconv"
	"time"

	config "surfschool_backend/configs"
	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/services"
)

// CancelStalePendingReservations cancels reservations that never moved
// past PENDING with an unpaid payment, freeing their spots and restoring
// product stock through the normal cancellation path.
func CancelStalePendingReservations(svc *services.ReservationService) {
	log.Println("Running job: CancelStalePendingReservations...")

	ttlMinutes, err := strconv.Atoi(config.Config("PENDING_RESERVATION_TTL_MINUTES"))
	if err != nil || ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	cutoff := time.Now().Add(-time.Duration(ttlMinutes) * time.Minute)

	var stale []models.Reservation
	err = database.DB.
		Joins("JOIN payments ON payments.reservation_id = reservations.id").
		Where("reservations.status = ? AND payments.status = ? AND reservations.created_at < ?",
			models.ReservationPending, models.PaymentUnpaid, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale reservations: %v", err)
		return
	}

	adminScope := services.ScopeContext{Role: models.RoleAdmin}
	for _, reservation := range stale {
		if _, err := svc.UpdateStatus(adminScope, reservation.ID, models.ReservationCanceled); err != nil {
			log.Printf("Failed to cancel stale reservation %s: %v", reservation.ID, err)
			continue
		}
		log.Printf("Canceled stale reservation ID: %s", reservation.ID)
	}
}
