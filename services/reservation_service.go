package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"surfschool_backend/models"
	"surfschool_backend/notifications"
	"surfschool_backend/utils"
)

var (
	ErrGuestDetailsMissing = errors.New("guest checkout requires a name and an email")
	ErrAccountExists       = errors.New("an account with this email already exists, please log in to book")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionClosed       = errors.New("this session is closed for booking")
	ErrMissingSlot         = errors.New("a session id or a date and start time is required")
	ErrCapacityExceeded    = errors.New("Not enough spots available")
	ErrProductUnavailable  = errors.New("one of the requested products is not available")
	ErrInsufficientStock   = errors.New("not enough stock for one of the requested products")
	ErrDiscountExhausted   = errors.New("this discount code is no longer valid")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidStatus       = errors.New("invalid reservation status")
)

// ProductLine is one requested ancillary purchase.
type ProductLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// DiscountSelector carries a code validated earlier in the same request
// lifecycle. The engine prices from the percentage and consumes one use
// at commit time; it does not re-run the validation pipeline.
type DiscountSelector struct {
	CodeID     uuid.UUID
	Percentage float64
}

type CreateReservationInput struct {
	ClassID   uuid.UUID
	SessionID *uuid.UUID
	Date      string
	StartTime string

	Participants       int
	ParticipantDetails datatypes.JSON
	SpecialRequest     *string
	Products           []ProductLine
	Discount           *DiscountSelector

	// UserID is nil for guest checkout, in which case GuestName and
	// GuestEmail provision a new account inside the same transaction.
	UserID     *uuid.UUID
	GuestName  string
	GuestEmail string
}

type CreateReservationResult struct {
	Reservation *models.Reservation
	User        *models.User
	IsNewUser   bool
}

// ReservationService is the transactional booking engine. The notifier is
// injected so tests can substitute a no-op sender.
type ReservationService struct {
	DB       *gorm.DB
	Notifier notifications.Sender
}

func NewReservationService(db *gorm.DB, notifier notifications.Sender) *ReservationService {
	return &ReservationService{DB: db, Notifier: notifier}
}

// normalizeGuestDetails trims and lowercases guest checkout fields,
// rejecting checkouts that cannot produce a usable account.
func normalizeGuestDetails(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return "", "", ErrGuestDetailsMissing
	}
	return name, email, nil
}

// hasCapacity reports whether the requested participants fit next to the
// already reserved ones.
func hasCapacity(reserved int64, requested, capacity int) bool {
	return int(reserved)+requested <= capacity
}

// computeTotals prices a reservation: class price times participants plus
// the product subtotal, the discount taken off that, and the final amount
// clamped at zero. All three are rounded to 2 decimal places.
func computeTotals(classPrice float64, participants int, productSubtotal float64, discount *DiscountSelector) (original, discountAmount, final float64) {
	classSubtotal := Round2(classPrice * float64(participants))
	original = Round2(classSubtotal + productSubtotal)
	if discount != nil {
		discountAmount = Round2(original * discount.Percentage / 100)
	}
	final = Round2(original - discountAmount)
	if final < 0 {
		final = 0
	}
	return original, discountAmount, final
}

// Create books a slot as one atomic unit of work: guest provisioning,
// slot resolution, capacity check, product stock, pricing, discount
// consumption and the reservation/payment inserts either all commit or
// all roll back. The session row is locked FOR UPDATE so two concurrent
// requests for the same slot cannot both pass the capacity check.
func (s *ReservationService) Create(input CreateReservationInput) (*CreateReservationResult, error) {
	result := &CreateReservationResult{}
	var tempPassword string

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 1. acting user
		var user models.User
		if input.UserID != nil {
			if err := tx.First(&user, "id = ?", *input.UserID).Error; err != nil {
				return ErrUserNotFound
			}
		} else {
			name, email, err := normalizeGuestDetails(input.GuestName, input.GuestEmail)
			if err != nil {
				return err
			}
			var count int64
			if err := tx.Model(&models.User{}).Where("lower(email) = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				// no silent account linking for anonymous callers
				return ErrAccountExists
			}

			tempPassword = utils.GenerateRandomPassword(12)
			hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user = models.User{
				FullName: name,
				Email:    email,
				Password: string(hashed),
				Role:     models.RoleStudent,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			result.IsNewUser = true
		}

		var class models.Class
		if err := tx.First(&class, "id = ?", input.ClassID).Error; err != nil {
			return ErrClassNotFound
		}

		// 2. slot resolution
		date, startTime := input.Date, input.StartTime
		if input.SessionID != nil {
			var session models.ClassSession
			if err := tx.First(&session, "id = ? AND class_id = ?", *input.SessionID, class.ID).Error; err != nil {
				return ErrSessionNotFound
			}
			date, startTime = session.Date, session.StartTime
		} else if date == "" || startTime == "" {
			return ErrMissingSlot
		} else {
			// booking a virtual slot materializes its backing row first,
			// giving concurrent requests a common row to contend on
			upsert := models.ClassSession{ClassID: class.ID, Date: date, StartTime: startTime}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "class_id"}, {Name: "date"}, {Name: "start_time"}},
				DoNothing: true,
			}).Create(&upsert).Error; err != nil {
				return err
			}
		}

		var session models.ClassSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "class_id = ? AND date = ? AND start_time = ?", class.ID, date, startTime).Error; err != nil {
			return err
		}
		if session.IsClosed {
			return ErrSessionClosed
		}

		capacity := class.Capacity
		if session.Capacity != nil {
			capacity = *session.Capacity
		}
		price := class.Price
		if session.Price != nil {
			price = *session.Price
		}

		// 3. capacity, counted under the session row lock
		var reserved int64
		if err := tx.Model(&models.Reservation{}).
			Where("class_id = ? AND date = ? AND start_time = ? AND status <> ?", class.ID, date, startTime, models.ReservationCanceled).
			Select("COALESCE(SUM(participants), 0)").
			Scan(&reserved).Error; err != nil {
			return err
		}
		if !hasCapacity(reserved, input.Participants, capacity) {
			return ErrCapacityExceeded
		}

		// 4. products
		productSubtotal := 0.0
		purchases := make([]models.ProductPurchase, 0, len(input.Products))
		for _, line := range input.Products {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", line.ProductID).Error; err != nil {
				return ErrProductUnavailable
			}
			if !product.IsActive {
				return ErrProductUnavailable
			}
			if product.Stock < line.Quantity {
				return ErrInsufficientStock
			}

			decrement := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if decrement.Error != nil {
				return decrement.Error
			}
			if decrement.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			total := Round2(product.Price * float64(line.Quantity))
			productSubtotal += total
			purchases = append(purchases, models.ProductPurchase{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Total:     total,
			})
		}

		// 5. pricing
		originalAmount, discountAmount, finalAmount := computeTotals(price, input.Participants, productSubtotal, input.Discount)
		var discountCodeID *uuid.UUID
		if input.Discount != nil {
			id := input.Discount.CodeID
			discountCodeID = &id
		}

		// 6. writes
		if discountCodeID != nil {
			if err := ConsumeDiscountUse(tx, *discountCodeID); err != nil {
				return err
			}
		}

		sessionID := session.ID
		reservation := models.Reservation{
			UserID:             user.ID,
			ClassID:            class.ID,
			SessionID:          &sessionID,
			Date:               date,
			StartTime:          startTime,
			Participants:       input.Participants,
			ParticipantDetails: input.ParticipantDetails,
			SpecialRequest:     input.SpecialRequest,
			Status:             models.ReservationPending,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		for i := range purchases {
			purchases[i].ReservationID = reservation.ID
		}
		if len(purchases) > 0 {
			if err := tx.Create(&purchases).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			ReservationID:  reservation.ID,
			Amount:         finalAmount,
			OriginalAmount: originalAmount,
			DiscountCodeID: discountCodeID,
			DiscountAmount: discountAmount,
			Status:         models.PaymentUnpaid,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		result.Reservation = &reservation
		result.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}

	var full models.Reservation
	if err := s.DB.
		Preload("User").
		Preload("Class.School").
		Preload("Session").
		Preload("Payment").
		Preload("ProductPurchases.Product").
		First(&full, "id = ?", result.Reservation.ID).Error; err == nil {
		result.Reservation = &full
	}

	go s.Notifier.SendReservationConfirmed(result.User.FullName, result.User.Email, result.Reservation.Class.Title, result.Reservation.Date, result.Reservation.StartTime)
	if result.IsNewUser {
		go s.Notifier.SendWelcomeEmail(result.User.FullName, result.User.Email, tempPassword)
	}

	return result, nil
}

var validReservationStatuses = map[string]bool{
	models.ReservationPending:   true,
	models.ReservationConfirmed: true,
	models.ReservationPaid:      true,
	models.ReservationCanceled:  true,
	models.ReservationCompleted: true,
}

// UpdateStatus changes a reservation's status. A plain owner may only
// cancel; school admins are bound to their school; instructors never
// mutate reservations. Entering CANCELED restores product stock.
func (s *ReservationService) UpdateStatus(scope ScopeContext, reservationID uuid.UUID, newStatus string) (*models.Reservation, error) {
	if !validReservationStatuses[newStatus] {
		return nil, ErrInvalidStatus
	}

	var reservation models.Reservation
	var wasCanceled bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("User").Preload("Class").Preload("ProductPurchases").
			First(&reservation, "id = ?", reservationID).Error; err != nil {
			return ErrReservationNotFound
		}
		wasCanceled = reservation.Status == models.ReservationCanceled

		switch scope.Role {
		case models.RoleAdmin:
		case models.RoleSchool:
			if scope.SchoolID == nil {
				return ErrScopeMissing
			}
			if reservation.Class.SchoolID != *scope.SchoolID {
				return ErrForbidden
			}
		case models.RoleStudent:
			if reservation.UserID != scope.UserID || newStatus != models.ReservationCanceled {
				return ErrForbidden
			}
		default:
			return ErrForbidden
		}

		if newStatus == models.ReservationCanceled {
			return cancelReservationTx(tx, &reservation)
		}

		return tx.Model(&reservation).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if newStatus == models.ReservationCanceled && !wasCanceled {
		go s.Notifier.SendReservationCanceled(reservation.User.FullName, reservation.User.Email, reservation.Class.Title, reservation.Date)
	}
	return &reservation, nil
}

// cancelReservationTx marks a reservation CANCELED and restores the stock
// of every linked purchase. The status flip is guarded, so concurrent
// cancels converge on a single winner and only that transaction restores
// stock.
func cancelReservationTx(tx *gorm.DB, reservation *models.Reservation) error {
	flip := tx.Model(&models.Reservation{}).
		Where("id = ? AND status <> ?", reservation.ID, models.ReservationCanceled).
		Update("status", models.ReservationCanceled)
	if flip.Error != nil {
		return flip.Error
	}
	reservation.Status = models.ReservationCanceled
	if flip.RowsAffected == 0 {
		// another transaction canceled first
		return nil
	}
	for _, purchase := range reservation.ProductPurchases {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", purchase.ProductID).
			Update("stock", gorm.Expr("stock + ?", purchase.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete hard-deletes a reservation with its payment and purchase rows.
// Platform admin only; child rows go first to satisfy the references.
func (s *ReservationService) Delete(scope ScopeContext, reservationID uuid.UUID) error {
	if scope.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, "id = ?", reservationID).Error; err != nil {
			return ErrReservationNotFound
		}
		if err := tx.Where("reservation_id = ?", reservationID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", reservationID).Delete(&models.ProductPurchase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reservation).Error
	})
}
