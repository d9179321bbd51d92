package jobs

import (
	"log"
	"time"

	"surfschool_backend/database"
	"surfschool_backend/models"
	"surfschool_backend/notifications"
)

// SendReservationReminders emails everyone with a confirmed or paid
// reservation taking place tomorrow.
func SendReservationReminders(notifier notifications.Sender) {
	log.Println("Running job: SendReservationReminders...")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var upcoming []models.Reservation
	err := database.DB.
		Preload("User").
		Preload("Class").
		Where("date = ? AND status IN ?", tomorrow, []string{models.ReservationConfirmed, models.ReservationPaid}).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming reservations: %v", err)
		return
	}

	for _, reservation := range upcoming {
		log.Printf("Sending reminder for reservation ID: %s", reservation.ID)
		go notifier.SendReservationReminder(
			reservation.User.FullName,
			reservation.User.Email,
			reservation.Class.Title,
			reservation.Date,
			reservation.StartTime,
		)
	}
}
